package state

import (
	"context"
	"io"
	"sync"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// Store is what every backend in this package provides.
type Store interface {
	ports.StateStore
	ports.CacheInspector
}

// LazyStore defers opening the underlying store until first use, so an
// invocation that never reaches the cache or settle stage leaves nothing on
// disk. A failed open is remembered and returned from every call.
type LazyStore struct {
	dir  string
	open func() (Store, error)

	mu    sync.Mutex
	tried bool
	store Store
	err   error
}

// NewLazyStore wraps open. dir is reported by Dir before the store is opened.
func NewLazyStore(dir string, open func() (Store, error)) *LazyStore {
	return &LazyStore{dir: dir, open: open}
}

func (l *LazyStore) get() (Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.tried {
		l.tried = true
		l.store, l.err = l.open()
		if l.err == nil && l.store == nil {
			l.err = &domain.StateError{Op: "open", Path: l.dir, Err: domain.ErrStateUnavailable}
		}
	}
	return l.store, l.err
}

// opened returns the underlying store without opening it.
func (l *LazyStore) opened() Store {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store
}

// Opened reports whether the underlying store has been opened successfully.
func (l *LazyStore) Opened() bool {
	return l.opened() != nil
}

func (l *LazyStore) LatestRequest(ctx context.Context) (domain.LatestRequest, bool, error) {
	s, err := l.get()
	if err != nil {
		return domain.LatestRequest{}, false, err
	}
	return s.LatestRequest(ctx)
}

func (l *LazyStore) SetLatestRequest(ctx context.Context, req domain.LatestRequest) error {
	s, err := l.get()
	if err != nil {
		return err
	}
	return s.SetLatestRequest(ctx, req)
}

func (l *LazyStore) CacheEntry(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	s, err := l.get()
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	return s.CacheEntry(ctx, key)
}

func (l *LazyStore) SetCacheEntry(ctx context.Context, entry domain.CacheEntry) error {
	s, err := l.get()
	if err != nil {
		return err
	}
	return s.SetCacheEntry(ctx, entry)
}

func (l *LazyStore) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	s, err := l.get()
	if err != nil {
		return nil, err
	}
	return s.Entries(ctx)
}

func (l *LazyStore) Clear(ctx context.Context) error {
	s, err := l.get()
	if err != nil {
		return err
	}
	return s.Clear(ctx)
}

func (l *LazyStore) Dir() string {
	if s := l.opened(); s != nil {
		return s.Dir()
	}
	return l.dir
}

// Close releases the underlying store if it was opened and holds resources.
func (l *LazyStore) Close() error {
	if c, ok := l.opened().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ Store = (*LazyStore)(nil)
