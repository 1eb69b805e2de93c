// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The coalescing core in internal/services depends only on these contracts:
// where coordination state lives (StateStore), how a backend is queried and
// how its failures are rendered (Backend), and where configuration and logs go.
// Concrete adapters live under internal/infrastructure.
package ports

import (
	"context"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.alfred-sf/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// StateStore holds the coordination state of exactly one workflow: the latest
// observed request and the result cache. Every write is all-or-nothing from a
// reader's point of view; no write is ordered against another.
type StateStore interface {
	LatestRequest(ctx context.Context) (domain.LatestRequest, bool, error)
	SetLatestRequest(ctx context.Context, req domain.LatestRequest) error
	CacheEntry(ctx context.Context, key string) (domain.CacheEntry, bool, error)
	SetCacheEntry(ctx context.Context, entry domain.CacheEntry) error
}

// CacheInspector is implemented by stores whose contents can be listed and purged.
type CacheInspector interface {
	Entries(ctx context.Context) ([]domain.CacheEntry, error)
	Clear(ctx context.Context) error
	Dir() string
}

// Backend is one search provider: it fetches a result payload for a query and
// renders its own failures as displayable rows.
type Backend interface {
	// Fetch returns the raw item-list payload. A failure should be a
	// *domain.FetchError whose Message is the diagnostic text.
	Fetch(ctx context.Context, query string) ([]byte, error)
	// MapError turns a raw failure message into a well-formed response.
	MapError(message string) domain.Response
}

// Logger provides structured logging abstraction for the application layer.
// Implementations must never write to stdout, which carries the response.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
