package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// Coalescer implements the settle window: a query may be fetched only after
// it has been observed unchanged for the whole window.
//
// The latest-request record is overwritten without compare-and-swap, so two
// invocations racing with different queries can reset each other's timer.
// The host polls again shortly after, which corrects a transient overwrite,
// but the true final query is not guaranteed to win under adversarial timing.
// Debouncer offers the stricter in-process alternative.
type Coalescer struct {
	Store    ports.StateStore
	Logger   ports.Logger
	Now      func() time.Time
	Sequence func(time.Time) string
}

// WaitForFinalQuery reports whether query has settled.
//
// With a zero window the query is recorded and settled immediately. Otherwise
// a missing record or a different stored query is replaced and reported as
// not settled; a matching record settles once its age reaches the window,
// without being rewritten. If the record cannot be written, coalescing is
// skipped and the query counts as settled so the response is never stalled.
func (c *Coalescer) WaitForFinalQuery(ctx context.Context, query string, settleSeconds float64) bool {
	now := c.now()
	if settleSeconds <= 0 {
		c.record(ctx, query, now)
		return true
	}

	latest, ok, err := c.Store.LatestRequest(ctx)
	if err != nil {
		c.debug("latest request unreadable", map[string]interface{}{"error": err.Error()})
		ok = false
	}
	if !ok || latest.Query != query {
		return !c.record(ctx, query, now)
	}

	ageMS := now.UnixMilli() - latest.UpdatedAtMS
	if ageMS < 0 {
		// Stored in the future: restart the window from the current clock.
		return !c.record(ctx, query, now)
	}
	settled := ageMS >= int64(math.Ceil(settleSeconds*1000))
	c.debug("coalesce check", map[string]interface{}{
		"query":   query,
		"age_ms":  ageMS,
		"settled": settled,
	})
	return settled
}

// record overwrites the latest request and reports whether the write landed.
func (c *Coalescer) record(ctx context.Context, query string, now time.Time) bool {
	req := domain.LatestRequest{
		Sequence:    c.sequence(now),
		UpdatedAtMS: now.UnixMilli(),
		Query:       query,
	}
	if err := c.Store.SetLatestRequest(ctx, req); err != nil {
		c.debug("latest request write failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

func (c *Coalescer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Coalescer) sequence(now time.Time) string {
	if c.Sequence != nil {
		return c.Sequence(now)
	}
	return NewSequence(now)
}

func (c *Coalescer) debug(msg string, fields map[string]interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(msg, fields)
	}
}

// NewSequence builds an observability token: timestamp, pid and a random tail.
// It carries no ordering guarantee.
func NewSequence(now time.Time) string {
	return fmt.Sprintf("%d-%d-%s", now.UnixNano(), os.Getpid(), uuid.NewString()[:8])
}
