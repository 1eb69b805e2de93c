package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
)

func TestLazyStoreOpensOnFirstUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "brave")
	opens := 0
	lazy := NewLazyStore(dir, func() (Store, error) {
		opens++
		return NewFileStoreAt(dir), nil
	})

	assert.Equal(t, dir, lazy.Dir())
	assert.False(t, lazy.Opened())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	ctx := context.Background()
	require.NoError(t, lazy.SetLatestRequest(ctx, domain.LatestRequest{Sequence: "s", UpdatedAtMS: 1000, Query: "q"}))
	got, ok, err := lazy.LatestRequest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q", got.Query)
	assert.Equal(t, 1, opens)
	assert.True(t, lazy.Opened())
	require.NoError(t, lazy.Close())
}

func TestLazyStoreRemembersOpenFailure(t *testing.T) {
	boom := &domain.StateError{Op: "open", Path: "x", Err: errors.New("denied")}
	opens := 0
	lazy := NewLazyStore("x", func() (Store, error) {
		opens++
		return nil, boom
	})

	ctx := context.Background()
	_, _, err := lazy.CacheEntry(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.Error(t, lazy.SetCacheEntry(ctx, domain.CacheEntry{Key: "k"}))
	_, err = lazy.Entries(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, opens)
	assert.NoError(t, lazy.Close())
}

func TestLazyStoreNilStoreIsUnavailable(t *testing.T) {
	lazy := NewLazyStore("x", func() (Store, error) { return nil, nil })
	_, _, err := lazy.LatestRequest(context.Background())
	assert.ErrorIs(t, err, domain.ErrStateUnavailable)
}

func TestLazyStoreConcurrentFirstUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "brave")
	var mu sync.Mutex
	opens := 0
	lazy := NewLazyStore(dir, func() (Store, error) {
		mu.Lock()
		opens++
		mu.Unlock()
		return NewFileStoreAt(dir), nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, err := lazy.CacheEntry(ctx, "k")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_ = lazy.Opened()
			assert.Equal(t, dir, lazy.Dir())
		}()
	}
	wg.Wait()

	assert.True(t, lazy.Opened())
	assert.Equal(t, 1, opens)
	require.NoError(t, lazy.Close())
}
