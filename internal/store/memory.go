package store

import (
	"context"
	"strings"
	"sync"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

// MemoryStore keeps all records in process memory. It is the default
// backend: state is lost on restart, which is the documented behavior of
// the demo. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	usernames map[string]string // lowercased username -> user id
	emails    map[string]string // lowercased email -> user id
	servers   map[string]*models.Server
	databases map[string]*models.Database
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		usernames: make(map[string]string),
		emails:    make(map[string]string),
		servers:   make(map[string]*models.Server),
		databases: make(map[string]*models.Database),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uname := strings.ToLower(u.Username)
	email := strings.ToLower(u.Email)
	if _, taken := s.usernames[uname]; taken {
		return apperr.Conflict("username already exists")
	}
	if _, taken := s.emails[email]; taken {
		return apperr.Conflict("email already exists")
	}

	cp := cloneUser(u)
	s.users[u.ID] = cp
	s.usernames[uname] = u.ID
	s.emails[email] = u.ID
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(identifier)
	id, ok := s.usernames[key]
	if !ok {
		id, ok = s.emails[key]
	}
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) InsertServer(_ context.Context, srv *models.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[srv.ID] = cloneServer(srv)
	return nil
}

func (s *MemoryStore) ListServersByOwner(_ context.Context, ownerID string) ([]models.Server, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Server
	for _, srv := range s.servers {
		if srv.OwnerID == ownerID {
			out = append(out, *cloneServer(srv))
		}
	}
	return out, nil
}

func (s *MemoryStore) GetServer(_ context.Context, id, ownerID string) (*models.Server, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	srv, ok := s.servers[id]
	if !ok || srv.OwnerID != ownerID {
		return nil, apperr.NotFound("server not found")
	}
	return cloneServer(srv), nil
}

func (s *MemoryStore) DeleteServer(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv, ok := s.servers[id]
	if !ok || srv.OwnerID != ownerID {
		return apperr.NotFound("server not found")
	}
	delete(s.servers, id)
	return nil
}

func (s *MemoryStore) CountServersByOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, srv := range s.servers {
		if srv.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountServers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.servers), nil
}

func (s *MemoryStore) BeginTransition(_ context.Context, id, ownerID, transient string) (*models.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv, ok := s.servers[id]
	if !ok || srv.OwnerID != ownerID {
		return nil, apperr.NotFound("server not found")
	}
	srv.Status = transient
	srv.Generation++
	return cloneServer(srv), nil
}

func (s *MemoryStore) SettleStatus(_ context.Context, id string, generation int64, terminal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv, ok := s.servers[id]
	if !ok || srv.Generation != generation {
		// Deleted or superseded by a newer transition.
		return nil
	}
	srv.Status = terminal
	return nil
}

func (s *MemoryStore) InsertDatabase(_ context.Context, d *models.Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.databases[d.ID] = &cp
	return nil
}

func (s *MemoryStore) ListDatabasesByOwner(_ context.Context, ownerID string) ([]models.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Database
	for _, d := range s.databases {
		if d.OwnerID == ownerID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	if u.Settings != nil {
		cp.Settings = make(map[string]any, len(u.Settings))
		for k, v := range u.Settings {
			cp.Settings[k] = v
		}
	}
	return &cp
}

func cloneServer(srv *models.Server) *models.Server {
	cp := *srv
	return &cp
}
