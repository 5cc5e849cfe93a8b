package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned by Get when the session is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository records live portal sessions so tokens can be revoked
// before they expire.
type SessionRepository interface {
	Save(ctx context.Context, id, username string, ttl time.Duration) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ── Redis ────────────────────────────────────────────────────────────────────

const sessionKeyPrefix = "stockportal:session:"

type redisSessionRepo struct{ rdb *redis.Client }

func NewRedisSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepo{rdb: rdb}
}

func (r *redisSessionRepo) Save(ctx context.Context, id, username string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, sessionKeyPrefix+id, username, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) Get(ctx context.Context, id string) (string, error) {
	username, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return username, nil
}

func (r *redisSessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// ── In-memory ────────────────────────────────────────────────────────────────

type memorySession struct {
	username  string
	expiresAt time.Time
}

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions do not
// survive a restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepo{sessions: make(map[string]memorySession), now: time.Now}
}

func (r *memorySessionRepo) Save(_ context.Context, id, username string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeExpired()
	r.sessions[id] = memorySession{username: username, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !r.now().Before(s.expiresAt) {
		delete(r.sessions, id)
		return "", ErrSessionNotFound
	}
	return s.username, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) Ping(context.Context) error { return nil }

// must be called under lock
func (r *memorySessionRepo) purgeExpired() {
	now := r.now()
	for id, s := range r.sessions {
		if !now.Before(s.expiresAt) {
			delete(r.sessions, id)
		}
	}
}
