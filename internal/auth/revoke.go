package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationSet records token ids invalidated by logout. Entries only need
// to live as long as the token itself.
type RevocationSet interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationSet stores revoked token ids in Redis with a TTL, so the
// set survives restarts and is shared between replicas.
type RedisRevocationSet struct {
	rdb *redis.Client
}

func NewRedisRevocationSet(rdb *redis.Client) *RedisRevocationSet {
	return &RedisRevocationSet{rdb: rdb}
}

func (s *RedisRevocationSet) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, "revoked:"+jti, "1", ttl).Err()
}

func (s *RedisRevocationSet) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, "revoked:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationSet is the in-process fallback used when Redis is not
// configured. Expired entries are dropped lazily on lookup.
type MemoryRevocationSet struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

func NewMemoryRevocationSet() *MemoryRevocationSet {
	return &MemoryRevocationSet{expires: make(map[string]time.Time)}
}

func (s *MemoryRevocationSet) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryRevocationSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.expires, jti)
		return false, nil
	}
	return true, nil
}
