package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-assess-be/pkg/store"
)

func newRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRepository(client, time.Hour), mr
}

func TestGetUnknownSession(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestCreateGetPutDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	session := store.NewSession("s-1", "Acme Corp loan", map[string]interface{}{"amount": 50000.0})
	session.AppendFeedback(store.FeedbackRecord{Kind: store.FeedbackKindNarrative, Instruction: "mention collateral"})
	require.NoError(t, repo.Create(ctx, session))

	loaded, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp loan", loaded.OriginalQuery)
	assert.Equal(t, store.StatusInitialized, loaded.Status)
	assert.Equal(t, map[string]interface{}{"amount": 50000.0}, loaded.LoanDetails)
	require.Len(t, loaded.NarrativeFeedback, 1)
	assert.Equal(t, "mention collateral", loaded.NarrativeFeedback[0].Instruction)

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

func TestKeysArePrefixedWithTTL(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, store.NewSession("s-1", "Acme Corp loan", nil)))

	assert.True(t, mr.Exists("assess:session:s-1"))
	assert.Greater(t, mr.TTL("assess:session:s-1"), time.Duration(0))
}

func TestCreateReplacesExistingRecord(t *testing.T) {
	repo, _ := newRepo(t)
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

func TestExpiredSessionBehavesLikeUnknown(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, store.NewSession("s-1", "Acme Corp loan", nil)))
	mr.FastForward(2 * time.Hour)

	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestDeleteAbsentSessionIsNotAnError(t *testing.T) {
	repo, _ := newRepo(t)

	assert.NoError(t, repo.Delete(context.Background(), "never-created"))
}
