package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetForget(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "verify_+15551234567", "123456", time.Minute))

	val, err := m.Get(ctx, "verify_+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "123456", val)

	require.NoError(t, m.Forget(ctx, "verify_+15551234567"))

	_, err = m.Get(ctx, "verify_+15551234567")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_PutOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "old", time.Minute))
	require.NoError(t, m.Put(ctx, "k", "new", time.Minute))

	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", val)
}

func TestMemory_ExpiredEntryIsGone(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v", -time.Second))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

// A Get racing the lazy expiry delete against a concurrent Put of a
// fresh value must never drop the fresh value: last writer wins per key.
func TestMemory_ExpiryDeleteDoesNotDropConcurrentPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for i := 0; i < 200; i++ {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, "verify_+15551234567", "old", -time.Second))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = m.Get(ctx, "verify_+15551234567")
		}()
		require.NoError(t, m.Put(ctx, "verify_+15551234567", "fresh", time.Minute))
		<-done

		val, err := m.Get(ctx, "verify_+15551234567")
		require.NoError(t, err)
		require.Equal(t, "fresh", val)
	}
}

func TestMemory_Denylist(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	ok, err := m.Has(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Add(ctx, "jti-1", time.Minute))

	ok, err = m.Has(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
