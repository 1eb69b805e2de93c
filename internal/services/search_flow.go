package services

import (
	"context"
	"time"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// SearchFlow composes the search-backed script filter: normalize, cache
// lookup, settle window, then either a pending response or a fetch.
type SearchFlow struct {
	Store           ports.StateStore
	Backend         ports.Backend
	Logger          ports.Logger
	Env             func(string) string
	EnvNames        domain.EnvNames
	Defaults        domain.SearchSettings
	PendingTitle    string
	PendingSubtitle string
	Now             func() time.Time
}

// Handle resolves the query from the host input and runs the flow. Queries
// below the minimum length are answered before any state or backend is touched.
func (f *SearchFlow) Handle(ctx context.Context, in domain.QueryInput) []byte {
	settings := f.Settings()
	query := NormalizeQuery(in)
	if err := CheckQueryLength(query, settings.MinQueryChars); err != nil {
		f.debug("query below minimum", map[string]interface{}{"query": query})
		return KeepTypingResponse(settings.MinQueryChars).Encode()
	}
	return f.Run(ctx, query, settings)
}

// Settings resolves the numeric knobs for this invocation.
func (f *SearchFlow) Settings() domain.SearchSettings {
	base := f.Defaults
	if base == (domain.SearchSettings{}) {
		base = domain.DefaultSearchSettings()
	}
	return ResolveSettings(f.Env, f.EnvNames, base)
}

// Run executes the flow for an already normalized query.
func (f *SearchFlow) Run(ctx context.Context, query string, settings domain.SearchSettings) []byte {
	cache := &ResultCache{State: f.Store, Logger: f.Logger, Now: f.Now}

	if status, payload, ok := cache.Load(ctx, query, settings.CacheTTLSeconds); ok {
		f.debug("cache hit", map[string]interface{}{"query": query, "status": string(status)})
		if status == domain.CacheOK {
			return payload
		}
		return MapFailure(f.Backend, string(payload))
	}

	dispatcher := &Dispatcher{Backend: f.Backend, Cache: cache, Logger: f.Logger}
	coalescer := &Coalescer{Store: f.Store, Logger: f.Logger, Now: f.Now}

	if !coalescer.WaitForFinalQuery(ctx, query, settings.SettleSeconds) {
		return PendingResponse(f.PendingTitle, f.PendingSubtitle, settings.RerunSeconds).Encode()
	}
	return dispatcher.FetchAndEmit(ctx, query, settings.CacheTTLSeconds)
}

func (f *SearchFlow) debug(msg string, fields map[string]interface{}) {
	if f.Logger != nil {
		f.Logger.Debug(msg, fields)
	}
}
