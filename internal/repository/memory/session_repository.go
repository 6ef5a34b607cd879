package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"credit-assess-be/internal/repository/contract"
	"credit-assess-be/pkg/store"
)

// SessionRepository keeps assessment sessions in process memory with TTL
// eviction. Records are cloned on both write and read so no caller shares
// mutable state with the cache.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.ISessionRepository = &SessionRepository{}

func NewSessionRepository(ttl, purgeInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, purgeInterval),
	}
}

func (r *SessionRepository) Create(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionId string) (*store.Session, error) {
	x, found := r.cache.Get(sessionId)
	if !found {
		return nil, store.ErrSessionNotFound
	}
	return x.(*store.Session).Clone(), nil
}

func (r *SessionRepository) Put(_ context.Context, session *store.Session) error {
	// Full replace; the expiry window restarts on every write so an active
	// workflow is not evicted mid-review.
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionId string) error {
	r.cache.Delete(sessionId)
	return nil
}
