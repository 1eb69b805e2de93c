package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/state"
)

func TestCoalescerSettleWindow(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := state.NewMemoryStore()
	c := &Coalescer{Store: store, Now: clock.Now}

	assert.False(t, c.WaitForFinalQuery(ctx, "mayda", 1), "first sighting records and waits")
	clock.Advance(300 * time.Millisecond)
	assert.False(t, c.WaitForFinalQuery(ctx, "mayday", 1), "changed query resets the window")
	clock.Advance(500 * time.Millisecond)
	assert.False(t, c.WaitForFinalQuery(ctx, "mayday", 1), "still inside the window")

	latest, ok, err := store.LatestRequest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	recordedAt := latest.UpdatedAtMS

	clock.Advance(600 * time.Millisecond)
	assert.True(t, c.WaitForFinalQuery(ctx, "mayday", 1))

	latest, _, _ = store.LatestRequest(ctx)
	assert.Equal(t, recordedAt, latest.UpdatedAtMS, "settling does not rewrite the record")
	assert.Equal(t, "mayday", latest.Query)
}

func TestCoalescerZeroWindowSettlesImmediately(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	c := &Coalescer{Store: store, Now: newFakeClock().Now}

	assert.True(t, c.WaitForFinalQuery(ctx, "q", 0))
	latest, ok, _ := store.LatestRequest(ctx)
	require.True(t, ok)
	assert.Equal(t, "q", latest.Query)
}

func TestCoalescerFutureRecordRestartsWindow(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := state.NewMemoryStore()
	require.NoError(t, store.SetLatestRequest(ctx, domain.LatestRequest{
		Sequence: "x", UpdatedAtMS: clock.Now().Add(time.Hour).UnixMilli(), Query: "q",
	}))
	c := &Coalescer{Store: store, Now: clock.Now}

	assert.False(t, c.WaitForFinalQuery(ctx, "q", 1))
	latest, _, _ := store.LatestRequest(ctx)
	assert.Equal(t, clock.Now().UnixMilli(), latest.UpdatedAtMS)
}

type failingStore struct {
	*state.MemoryStore
}

func (failingStore) SetLatestRequest(context.Context, domain.LatestRequest) error {
	return errors.New("read-only")
}

func TestCoalescerUnwritableStateDoesNotStall(t *testing.T) {
	c := &Coalescer{Store: failingStore{state.NewMemoryStore()}, Now: newFakeClock().Now}
	assert.True(t, c.WaitForFinalQuery(context.Background(), "q", 2))
}

func TestNewSequenceShape(t *testing.T) {
	a := NewSequence(time.Unix(1, 0))
	b := NewSequence(time.Unix(1, 0))
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^\d+-\d+-[0-9a-f]{8}$`, a)
}
