package services

import (
	"context"
	"sync"
	"time"

	"github.com/doeshing/alfred-sf/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubBackend struct {
	mu      sync.Mutex
	calls   []string
	payload func(query string) []byte
	err     error
}

func (s *stubBackend) Fetch(_ context.Context, query string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
	if s.err != nil {
		return nil, s.err
	}
	if s.payload != nil {
		return s.payload(query), nil
	}
	return []byte(`{"items":[{"title":"` + query + `","valid":true,"arg":"` + query + `"}]}`), nil
}

func (s *stubBackend) MapError(message string) domain.Response {
	return domain.InfoResponse("Backend error", message)
}

func (s *stubBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}
