package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

// MongoResourceStore handles server and database records in MongoDB,
// one collection per record kind, indexed by owner.
type MongoResourceStore struct {
	servers   *mongo.Collection
	databases *mongo.Collection
}

func NewMongoResourceStore(db *mongo.Database) *MongoResourceStore {
	return &MongoResourceStore{
		servers:   db.Collection("servers"),
		databases: db.Collection("databases"),
	}
}

// EnsureIndexes creates the owner indexes used by every list query.
func (s *MongoResourceStore) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}}
	if _, err := s.servers.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("servers index: %w", err)
	}
	if _, err := s.databases.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("databases index: %w", err)
	}
	return nil
}

func (s *MongoResourceStore) InsertServer(ctx context.Context, srv *models.Server) error {
	if _, err := s.servers.InsertOne(ctx, srv); err != nil {
		return fmt.Errorf("insert server: %w", err)
	}
	return nil
}

func (s *MongoResourceStore) ListServersByOwner(ctx context.Context, ownerID string) ([]models.Server, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.servers.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Server
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoResourceStore) GetServer(ctx context.Context, id, ownerID string) (*models.Server, error) {
	var srv models.Server
	err := s.servers.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&srv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("server not found")
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (s *MongoResourceStore) DeleteServer(ctx context.Context, id, ownerID string) error {
	res, err := s.servers.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("server not found")
	}
	return nil
}

func (s *MongoResourceStore) CountServersByOwner(ctx context.Context, ownerID string) (int, error) {
	n, err := s.servers.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	return int(n), err
}

func (s *MongoResourceStore) CountServers(ctx context.Context) (int, error) {
	n, err := s.servers.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (s *MongoResourceStore) BeginTransition(ctx context.Context, id, ownerID, transient string) (*models.Server, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var srv models.Server
	err := s.servers.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": bson.M{"status": transient}, "$inc": bson.M{"generation": 1}},
		opts,
	).Decode(&srv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("server not found")
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (s *MongoResourceStore) SettleStatus(ctx context.Context, id string, generation int64, terminal string) error {
	// The generation filter makes a superseded settle a silent no-op.
	_, err := s.servers.UpdateOne(ctx,
		bson.M{"_id": id, "generation": generation},
		bson.M{"$set": bson.M{"status": terminal}},
	)
	return err
}

func (s *MongoResourceStore) InsertDatabase(ctx context.Context, d *models.Database) error {
	if _, err := s.databases.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert database: %w", err)
	}
	return nil
}

func (s *MongoResourceStore) ListDatabasesByOwner(ctx context.Context, ownerID string) ([]models.Database, error) {
	cur, err := s.databases.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Database
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
