package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

func newUser(id, username, email string) *models.User {
	return &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  "hash",
		Plan:      models.PlanFree,
		Coins:     100,
		CreatedAt: time.Now(),
	}
}

func newServer(id, ownerID string) *models.Server {
	return &models.Server{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "bot",
		Type:      models.TypeDiscordBot,
		Status:    models.StatusOffline,
		CreatedAt: time.Now(),
	}
}

func TestMemoryStore_UserUniqueness(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("u1", "ana", "ana@x.com")))

	err := s.CreateUser(ctx, newUser("u2", "Ana", "other@x.com"))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err), "usernames are case-insensitive")

	err = s.CreateUser(ctx, newUser("u3", "bob", "ANA@x.com"))
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err), "emails are case-insensitive")
}

func TestMemoryStore_GetUserByIdentifier(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("u1", "ana", "ana@x.com")))

	byName, err := s.GetUserByIdentifier(ctx, "ana")
	require.NoError(t, err)
	byMail, err := s.GetUserByIdentifier(ctx, "ana@x.com")
	require.NoError(t, err)
	require.Equal(t, byName.ID, byMail.ID)

	_, err = s.GetUserByIdentifier(ctx, "nobody")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemoryStore_UpdateUser(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()
	u := newUser("u1", "ana", "ana@x.com")
	require.NoError(t, s.CreateUser(ctx, u))

	u.Plan = models.PlanPremium
	u.Settings = map[string]any{"theme": "dark"}
	require.NoError(t, s.UpdateUser(ctx, u))

	got, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, models.PlanPremium, got.Plan)
	require.Equal(t, "dark", got.Settings["theme"])

	err = s.UpdateUser(ctx, newUser("missing", "x", "x@x.com"))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemoryStore_OwnerScoping(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertServer(ctx, newServer("s1", "alice")))
	require.NoError(t, s.InsertServer(ctx, newServer("s2", "bob")))

	servers, err := s.ListServersByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, servers, 1)
	require.Equal(t, "s1", servers[0].ID)

	// Someone else's server behaves as if it did not exist.
	_, err = s.GetServer(ctx, "s2", "alice")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = s.DeleteServer(ctx, "s2", "alice")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	n, err := s.CountServersByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	total, err := s.CountServers(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestMemoryStore_DeleteServer(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.InsertServer(ctx, newServer("s1", "alice")))

	require.NoError(t, s.DeleteServer(ctx, "s1", "alice"))
	servers, err := s.ListServersByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, servers)
}

func TestMemoryStore_TransitionGenerations(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.InsertServer(ctx, newServer("s1", "alice")))

	first, err := s.BeginTransition(ctx, "s1", "alice", models.StatusStarting)
	require.NoError(t, err)
	require.Equal(t, models.StatusStarting, first.Status)
	require.Equal(t, int64(1), first.Generation)

	// A second transition supersedes the first.
	second, err := s.BeginTransition(ctx, "s1", "alice", models.StatusStopping)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Generation)

	// The stale settle is a no-op.
	require.NoError(t, s.SettleStatus(ctx, "s1", first.Generation, models.StatusOnline))
	got, err := s.GetServer(ctx, "s1", "alice")
	require.NoError(t, err)
	require.Equal(t, models.StatusStopping, got.Status)

	// The current settle lands.
	require.NoError(t, s.SettleStatus(ctx, "s1", second.Generation, models.StatusOffline))
	got, err = s.GetServer(ctx, "s1", "alice")
	require.NoError(t, err)
	require.Equal(t, models.StatusOffline, got.Status)

	// Settling a deleted server is also a silent no-op.
	require.NoError(t, s.DeleteServer(ctx, "s1", "alice"))
	require.NoError(t, s.SettleStatus(ctx, "s1", second.Generation, models.StatusOnline))
}

func TestMemoryStore_Databases(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	dbs, err := s.ListDatabasesByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, dbs)

	require.NoError(t, s.InsertDatabase(ctx, &models.Database{ID: "d1", OwnerID: "alice", Name: "main", Engine: "mysql"}))
	require.NoError(t, s.InsertDatabase(ctx, &models.Database{ID: "d2", OwnerID: "bob", Name: "main", Engine: "mysql"}))

	dbs, err = s.ListDatabasesByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	require.Equal(t, "d1", dbs[0].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()
	u := newUser("u1", "ana", "ana@x.com")
	u.Settings = map[string]any{"theme": "dark"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	got.Settings["theme"] = "light"
	got.Coins = 0

	fresh, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "dark", fresh.Settings["theme"])
	require.Equal(t, 100, fresh.Coins)
}
