package convctx

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOnEmptyStore(t *testing.T) {
	s := NewMemoryStore()

	id, ok, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestAnchorOverwritesWholesale(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Anchor(ctx, 42, "ev-1"))
	require.NoError(t, s.Anchor(ctx, 42, "ev-2"))

	id, ok, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ev-2", id)
}

func TestConversationsAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Anchor(ctx, 1, "ev-a"))
	require.NoError(t, s.Anchor(ctx, 2, "ev-b"))

	id, ok, _ := s.Get(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, "ev-a", id)

	id, ok, _ = s.Get(ctx, 2)
	assert.True(t, ok)
	assert.Equal(t, "ev-b", id)
}

func TestClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Anchor(ctx, 42, "ev-1"))
	require.NoError(t, s.Clear(ctx, 42))

	_, ok, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an absent conversation is a no-op.
	require.NoError(t, s.Clear(ctx, 42))
}

func TestConcurrentAnchors(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Anchor(ctx, int64(i%5), fmt.Sprintf("ev-%d", i))
			_, _, _ = s.Get(ctx, int64(i%5))
		}(i)
	}
	wg.Wait()

	for conv := int64(0); conv < 5; conv++ {
		_, ok, err := s.Get(ctx, conv)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
