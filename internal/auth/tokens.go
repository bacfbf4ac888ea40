package auth

import (
	"context"
	"sync"
	"time"

	rredis "bizcards/pkg/redis"
)

// TokenStore is the session-scoped storage slot for the bearer token.
// Written on login, cleared on logout.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryTokens keeps the token in process memory; it dies with the session.
type MemoryTokens struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokens() *MemoryTokens { return &MemoryTokens{} }

func (m *MemoryTokens) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryTokens) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokens) ClearToken(context.Context) error {
	return m.SetToken(context.Background(), "")
}

// RedisTokens keeps the token in Redis under the session's key. The key
// expires after ttl unless Touch is called while the session is in use.
type RedisTokens struct {
	rdb       *rredis.Client
	sessionID string
	ttl       time.Duration
}

func NewRedisTokens(rdb *rredis.Client, sessionID string, ttl time.Duration) *RedisTokens {
	return &RedisTokens{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

func (r *RedisTokens) Token(ctx context.Context) (string, error) {
	return r.rdb.SessionToken(ctx, r.sessionID)
}

func (r *RedisTokens) SetToken(ctx context.Context, token string) error {
	return r.rdb.SetSessionToken(ctx, r.sessionID, token, r.ttl)
}

// Touch restarts the token's expiry; the session calls it on every request.
func (r *RedisTokens) Touch(ctx context.Context) error {
	return r.rdb.TouchSessionToken(ctx, r.sessionID, r.ttl)
}

func (r *RedisTokens) ClearToken(ctx context.Context) error {
	return r.rdb.DeleteSessionToken(ctx, r.sessionID)
}
