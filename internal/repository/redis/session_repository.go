package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-assess-be/internal/repository/contract"
	"credit-assess-be/pkg/store"
)

const keyPrefix = "assess:session:"

// SessionRepository persists assessment sessions in Redis as JSON values
// with a TTL, letting Redis own expiry the same way the in-memory backing
// does. Sessions survive process restarts, but writes are plain SETs
// serialized by the process-local per-session lock: running multiple
// replicas needs a WATCH/CAS write scheme this backing does not provide.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.ISessionRepository = &SessionRepository{}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *store.Session) error {
	return r.write(ctx, session)
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) (*store.Session, error) {
	payload, err := r.client.Get(ctx, keyPrefix+sessionId).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionId, err)
	}
	return &session, nil
}

func (r *SessionRepository) Put(ctx context.Context, session *store.Session) error {
	return r.write(ctx, session)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionId).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) write(ctx context.Context, session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}
