package app

import (
	"os/exec"
	"time"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/backend"
	"github.com/doeshing/alfred-sf/internal/infrastructure/state"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// openStore returns a lazily opened store for the selected backend. A sqlite
// database that cannot be opened degrades to the file layout.
func openStore(kind string, wc domain.WorkflowContext, log ports.Logger) *state.LazyStore {
	switch kind {
	case domain.StateBackendMemory:
		return state.NewLazyStore("", func() (state.Store, error) {
			return state.NewMemoryStore(), nil
		})
	case domain.StateBackendSQLite:
		path := state.DefaultSQLitePath(wc)
		return state.NewLazyStore(path, func() (state.Store, error) {
			store, err := state.NewSQLiteStore(path, wc.Key)
			if err != nil {
				log.Warn("sqlite state unavailable, using files", map[string]interface{}{"error": err.Error()})
				return state.NewFileStore(wc), nil
			}
			return store, nil
		})
	default:
		return state.NewLazyStore(wc.StateDir(), func() (state.Store, error) {
			return state.NewFileStore(wc), nil
		})
	}
}

func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func countRules(path string) (int, error) {
	m, err := backend.NewRulesMapper(path)
	if err != nil {
		return 0, err
	}
	return m.Len(), nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
