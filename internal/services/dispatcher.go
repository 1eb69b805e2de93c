package services

import (
	"context"
	"errors"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// Dispatcher runs the backend fetch and records its outcome. It never looks
// inside a successful payload.
type Dispatcher struct {
	Backend ports.Backend
	Cache   *ResultCache
	Logger  ports.Logger
}

// FetchAndEmit fetches query and returns the bytes to print. Successful
// payloads pass through verbatim; failures are cached (when ttlSeconds > 0)
// as their diagnostic text and rendered through the backend's error mapper.
func (d *Dispatcher) FetchAndEmit(ctx context.Context, query string, ttlSeconds int) []byte {
	payload, err := d.Backend.Fetch(ctx, query)
	if err != nil {
		message := FailureMessage(err)
		if d.Logger != nil {
			d.Logger.Warn("backend fetch failed", map[string]interface{}{"query": query, "error": message})
		}
		if ttlSeconds > 0 && d.Cache != nil {
			d.Cache.Store(ctx, query, domain.CacheErr, []byte(message))
		}
		return MapFailure(d.Backend, message)
	}
	if ttlSeconds > 0 && d.Cache != nil {
		d.Cache.Store(ctx, query, domain.CacheOK, payload)
	}
	return payload
}

// FailureMessage extracts the diagnostic text of a fetch failure.
func FailureMessage(err error) string {
	var fe *domain.FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return err.Error()
}

// MapFailure renders message through the backend's error mapper, falling back
// to a generic row when the mapper produced none.
func MapFailure(backend ports.Backend, message string) []byte {
	resp := backend.MapError(message)
	if len(resp.Items) == 0 {
		resp = domain.InfoResponse("Request failed", message)
	}
	return resp.Encode()
}
