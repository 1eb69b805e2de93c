package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Debouncer is the long-lived alternative to the polling settle window: a
// per-workflow timer restarts on every query and fires the fetch once the
// workflow has been quiet for Settle. Identical fetches in flight at the same
// time share one backend call.
type Debouncer struct {
	Settle time.Duration
	Fetch  func(ctx context.Context, query string) []byte
	Emit   func(workflow, query string, out []byte)

	group  singleflight.Group
	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// Submit records query as the latest for workflow, superseding any query
// still waiting out its window.
func (d *Debouncer) Submit(ctx context.Context, workflow, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timers == nil {
		d.timers = make(map[string]*time.Timer)
	}
	if prev, ok := d.timers[workflow]; ok && prev.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.Settle, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[workflow] == timer {
			delete(d.timers, workflow)
		}
		d.mu.Unlock()
		d.fire(ctx, workflow, query)
	})
	d.timers[workflow] = timer
}

// Cancel drops the pending query for workflow, if any.
func (d *Debouncer) Cancel(workflow string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[workflow]; ok {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, workflow)
	}
}

// Drain blocks until every scheduled fetch has either run or been cancelled.
func (d *Debouncer) Drain() {
	d.wg.Wait()
}

func (d *Debouncer) fire(ctx context.Context, workflow, query string) {
	if ctx.Err() != nil {
		return
	}
	v, _, _ := d.group.Do(workflow+"\x00"+query, func() (interface{}, error) {
		return d.Fetch(ctx, query), nil
	})
	if d.Emit != nil {
		d.Emit(workflow, query, v.([]byte))
	}
}
