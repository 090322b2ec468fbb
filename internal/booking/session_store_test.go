package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionStoreLoadMissing(t *testing.T) {
	store, _ := newTestSessionStore(t)

	state, err := store.Load(context.Background(), "agent-1", "sess-1")
	require.NoError(t, err)
	assert.Nil(t, state, "missing session is nil state, not an error")
}

func TestSessionStoreSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	in := &State{
		Data: ExtractedFields{
			Date: "2026-01-06", Time: "14:00", Timezone: "UTC",
			Name: "Jane Doe", Email: "jane@x.com",
		},
		IsComplete: true,
		Confidence: 0.95,
	}
	require.NoError(t, store.Save(ctx, "agent-1", "sess-1", in))

	out, err := store.Load(ctx, "agent-1", "sess-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, out)
}

func TestSessionStoreKeysAreScoped(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "agent-1", "sess-1", &State{Data: ExtractedFields{Name: "Jane Doe"}}))

	other, err := store.Load(ctx, "agent-2", "sess-1")
	require.NoError(t, err)
	assert.Nil(t, other, "sessions are keyed per agent")
}

func TestSessionStoreExpires(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "agent-1", "sess-1", &State{}))
	mr.FastForward(2 * time.Hour)

	state, err := store.Load(ctx, "agent-1", "sess-1")
	require.NoError(t, err)
	assert.Nil(t, state, "abandoned flows expire with the TTL")
}

func TestSessionStoreDelete(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "agent-1", "sess-1", &State{}))
	require.NoError(t, store.Delete(ctx, "agent-1", "sess-1"))

	state, err := store.Load(ctx, "agent-1", "sess-1")
	require.NoError(t, err)
	assert.Nil(t, state)
}
