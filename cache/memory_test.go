package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		m := NewMemory(time.Minute)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
		got, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("MissOnAbsentKey", func(t *testing.T) {
		m := NewMemory(time.Minute)
		defer m.Close()

		_, err := m.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("ExpiredEntryMisses", func(t *testing.T) {
		m := NewMemory(time.Minute)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		_, err := m.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("OverwriteReplacesValue", func(t *testing.T) {
		m := NewMemory(time.Minute)
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", []byte("old"), time.Minute))
		require.NoError(t, m.Set(ctx, "k", []byte("new"), time.Minute))
		got, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, s.Close())
}
