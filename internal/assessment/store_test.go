package assessment

import (
	"context"
	"testing"
	"time"

	"career-guidance-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	s := NewSession("abc", fixedNow)
	s.Step = StepPersonality
	s.Transcript = &models.Transcript{ID: "t-1", GPA: 3.5, Pathway: models.PathwayLanguages}

	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("assessment:session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("assessment:session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StepPersonality, got.Step)
	assert.Equal(t, 3.5, got.Transcript.GPA)
	assert.True(t, fixedNow.Equal(got.CreatedAt))
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("old", fixedNow)))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("gone", fixedNow)))
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err := store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set(SessionKey("bad"), "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
