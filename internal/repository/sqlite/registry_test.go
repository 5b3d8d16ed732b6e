package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func TestRegistry_RecordAndIsKnown(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	known, err := reg.IsKnown(ctx, 42)
	require.NoError(t, err)
	assert.False(t, known)

	added, err := reg.Record(ctx, 42)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = reg.Record(ctx, 42)
	require.NoError(t, err)
	assert.False(t, added)

	known, err = reg.IsKnown(ctx, 42)
	require.NoError(t, err)
	assert.True(t, known)
}

func TestRegistry_ListChatIDsKeepsInsertionOrder(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	for _, id := range []int64{300, -100, 200, 300} {
		_, err := reg.Record(ctx, id)
		require.NoError(t, err)
	}

	ids, err := reg.ListChatIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{300, -100, 200}, ids)
}

func TestRegistry_ConcurrentRecord(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := reg.Record(ctx, 9)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, added)
	ids, err := reg.ListChatIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids)
}
