package contract

import (
	"context"

	"credit-assess-be/pkg/store"
)

// ISessionRepository is the session store contract. Records are written
// whole: Put replaces, never merges. Get issued after a completed Put on the
// same handle observes the new value. Eviction (TTL or capacity) is the
// backing's concern; an evicted id behaves exactly like one never created
// and surfaces store.ErrSessionNotFound.
type ISessionRepository interface {
	// Create installs a fresh record under the id, replacing any existing
	// record (init has create-or-reset semantics).
	Create(ctx context.Context, session *store.Session) error

	// Get returns the record or store.ErrSessionNotFound.
	Get(ctx context.Context, sessionId string) (*store.Session, error)

	// Put fully replaces the stored record.
	Put(ctx context.Context, session *store.Session) error

	// Delete removes the record. Deleting an absent id is not an error.
	Delete(ctx context.Context, sessionId string) error
}
