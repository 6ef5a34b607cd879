package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-assess-be/pkg/store"
)

func newRepo() *SessionRepository {
	return NewSessionRepository(time.Hour, time.Hour)
}

func TestGetUnknownSession(t *testing.T) {
	repo := newRepo()

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestCreateGetPutDelete(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	session := store.NewSession("s-1", "Acme Corp loan", map[string]interface{}{"amount": 50000})
	require.NoError(t, repo.Create(ctx, session))

	loaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp loan", loaded.OriginalQuery)
	assert.Equal(t, store.StatusInitialized, loaded.Status)

	loaded.SetNarrative("a narrative", 30)
	require.NoError(t, repo.Put(ctx, loaded))

	reloaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, reloaded.CurrentNarrative)
	assert.Equal(t, "a narrative", *reloaded.CurrentNarrative)
	assert.Equal(t, 30, *reloaded.CurrentScore)

	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err = repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestCreateReplacesExistingRecord(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	first := store.NewSession("s-1", "first", nil)
	first.SetNarrative("old narrative", 90)
	require.NoError(t, repo.Create(ctx, first))

	require.NoError(t, repo.Create(ctx, store.NewSession("s-1", "second", nil)))

	loaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.OriginalQuery)
	assert.Nil(t, loaded.CurrentNarrative)
}

func TestReturnedRecordsDoNotAliasCache(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	session := store.NewSession("s-1", "Acme Corp loan", nil)
	require.NoError(t, repo.Create(ctx, session))

	// Mutating what the caller holds must not leak into the store
	session.AppendFeedback(store.FeedbackRecord{Kind: store.FeedbackKindNarrative, Instruction: "held by caller"})

	loaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.NarrativeFeedback)

	// Same for records handed out by Get
	loaded.AppendFeedback(store.FeedbackRecord{Kind: store.FeedbackKindNarrative, Instruction: "mutated after read"})

	reloaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, reloaded.NarrativeFeedback)
}

func TestExpiredSessionBehavesLikeUnknown(t *testing.T) {
	repo := NewSessionRepository(10*time.Millisecond, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, store.NewSession("s-1", "Acme Corp loan", nil)))
	time.Sleep(30 * time.Millisecond)

	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
