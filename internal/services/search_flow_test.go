package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/state"
	"github.com/doeshing/alfred-sf/internal/pkg/logger"
	"github.com/doeshing/alfred-sf/internal/ports"
)

func newSearchFlow(store ports.StateStore, backend ports.Backend, clock *fakeClock, env map[string]string) *SearchFlow {
	return &SearchFlow{
		Store:    store,
		Backend:  backend,
		Logger:   logger.NewNop(),
		Env:      envMap(env),
		EnvNames: domain.EnvNamesFor("BRAVE"),
		Now:      clock.Now,
	}
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc), string(raw))
	require.IsType(t, []interface{}{}, doc["items"])
	return doc
}

func TestSearchFlowShortQueryNeverFetches(t *testing.T) {
	backend := &stubBackend{}
	store := state.NewMemoryStore()
	flow := newSearchFlow(store, backend, newFakeClock(), map[string]string{
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "0",
	})

	out := flow.Handle(context.Background(), domain.QueryInput{Arg: " a "})

	doc := decode(t, out)
	item := doc["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, domain.KeepTypingTitle, item["title"])
	assert.Empty(t, backend.Calls())
	_, ok, _ := store.LatestRequest(context.Background())
	assert.False(t, ok, "state untouched for short queries")
}

func TestSearchFlowCachesIdenticalQueries(t *testing.T) {
	ctx := context.Background()
	backend := &stubBackend{}
	flow := newSearchFlow(state.NewMemoryStore(), backend, newFakeClock(), map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS":       "60",
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "0",
	})

	first := flow.Handle(ctx, domain.QueryInput{Arg: "golang"})
	second := flow.Handle(ctx, domain.QueryInput{Arg: "golang"})

	assert.Equal(t, []string{"golang"}, backend.Calls())
	assert.Equal(t, first, second)
}

func TestSearchFlowDisabledCacheFetchesEveryTime(t *testing.T) {
	ctx := context.Background()
	backend := &stubBackend{}
	flow := newSearchFlow(state.NewMemoryStore(), backend, newFakeClock(), map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS":       "0",
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "0",
	})

	flow.Handle(ctx, domain.QueryInput{Arg: "golang"})
	flow.Handle(ctx, domain.QueryInput{Arg: "golang"})

	assert.Equal(t, []string{"golang", "golang"}, backend.Calls())
}

func TestSearchFlowFinalQueryWins(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	backend := &stubBackend{}
	flow := newSearchFlow(state.NewFileStoreAt(t.TempDir()), backend, clock, map[string]string{
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "1",
	})

	for _, q := range []string{"mayda", "mayday"} {
		doc := decode(t, flow.Handle(ctx, domain.QueryInput{Arg: q}))
		assert.Equal(t, 0.4, doc["rerun"], "pending for %q", q)
		clock.Advance(200 * time.Millisecond)
	}

	clock.Advance(1100 * time.Millisecond)
	out := flow.Handle(ctx, domain.QueryInput{Arg: "mayday"})

	doc := decode(t, out)
	assert.NotContains(t, doc, "rerun")
	item := doc["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "mayday", item["title"])
	assert.Equal(t, []string{"mayday"}, backend.Calls())
}

func TestSearchFlowBackendFailureIsInvalidRow(t *testing.T) {
	ctx := context.Background()
	backend := &stubBackend{err: &domain.FetchError{Query: "golang", Message: "rate limited", ExitCode: 2}}
	flow := newSearchFlow(state.NewMemoryStore(), backend, newFakeClock(), map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS":       "60",
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "0",
	})

	out := flow.Handle(ctx, domain.QueryInput{Arg: "golang"})

	doc := decode(t, out)
	item := doc["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, false, item["valid"])
	assert.Equal(t, "rate limited", item["subtitle"])
	assert.NotContains(t, item, "arg")

	again := flow.Handle(ctx, domain.QueryInput{Arg: "golang"})
	assert.Equal(t, out, again, "negative result served from cache")
	assert.Len(t, backend.Calls(), 1)
}

func TestSearchFlowCacheHitBypassesCoalescer(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := state.NewMemoryStore()
	backend := &stubBackend{}
	flow := newSearchFlow(store, backend, clock, map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS": "60",
	})
	cache := &ResultCache{State: store, Now: clock.Now}
	cache.Store(ctx, "golang", domain.CacheOK, []byte(`{"items":[]}`))

	out := flow.Handle(ctx, domain.QueryInput{Arg: "golang"})

	assert.Equal(t, []byte(`{"items":[]}`), out)
	assert.Empty(t, backend.Calls())
	_, ok, _ := store.LatestRequest(ctx)
	assert.False(t, ok)
}

func TestSearchFlowPendingUsesProfileCopy(t *testing.T) {
	flow := newSearchFlow(state.NewMemoryStore(), &stubBackend{}, newFakeClock(), map[string]string{
		"BRAVE_QUERY_COALESCE_RERUN_SECONDS": "1.5",
	})
	flow.PendingTitle = "Searching Brave..."

	doc := decode(t, flow.Handle(context.Background(), domain.QueryInput{Arg: "golang"}))

	assert.Equal(t, 1.5, doc["rerun"])
	item := doc["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Searching Brave...", item["title"])
	assert.Equal(t, domain.DefaultPendingSubtitle, item["subtitle"])
}
