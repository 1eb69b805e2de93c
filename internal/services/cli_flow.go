package services

import (
	"context"
	"errors"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// Messages routed to the error mapper when a command succeeds but prints
// nothing usable.
const (
	EmptyOutputMessage     = "Command produced no output"
	MalformedOutputMessage = "Command returned invalid item list"
)

// CLIFlow drives command-style workflows: execute, validate, map failures.
// It has no cache or settle stage.
type CLIFlow struct {
	Backend ports.Backend
	Logger  ports.Logger
}

// Run executes the backend for query and always returns a well-formed
// response document.
func (f *CLIFlow) Run(ctx context.Context, query string) []byte {
	payload, err := f.Backend.Fetch(ctx, query)
	if err != nil {
		message := FailureMessage(err)
		f.warn("command failed", query, message)
		return MapFailure(f.Backend, message)
	}
	if err := ValidateItemList(payload); err != nil {
		message := MalformedOutputMessage
		if errors.Is(err, domain.ErrEmptyOutput) {
			message = EmptyOutputMessage
		}
		f.warn("command output rejected", query, err.Error())
		return MapFailure(f.Backend, message)
	}
	return payload
}

func (f *CLIFlow) warn(msg, query, detail string) {
	if f.Logger != nil {
		f.Logger.Warn(msg, map[string]interface{}{"query": query, "error": detail})
	}
}
