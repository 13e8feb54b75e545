package production

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "calcx:session:abc", Key("abc"))
}

func TestNewRedisPersister_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisPersister(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

// Runs against a real server when CALCX_REDIS_ADDR is set.
func TestRedisPersister_RoundTrip(t *testing.T) {
	addr := os.Getenv("CALCX_REDIS_ADDR")
	if addr == "" {
		t.Skip("CALCX_REDIS_ADDR not set")
	}
	ctx := context.Background()
	p, err := NewRedisPersister(ctx, RedisConfig{Addr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer p.Close()

	rec := pendingRecord(t)
	require.NoError(t, p.Save(ctx, rec))
	t.Cleanup(func() { _ = p.Delete(context.Background(), rec.SessionID) })

	loaded, err := p.Load(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rec.State, loaded.State)

	require.NoError(t, p.Delete(ctx, rec.SessionID))
	_, err = p.Load(ctx, rec.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Load(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}
