package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// waitDelay bounds how long output pipes are drained after the process is
// killed, in case it left children holding them open.
const waitDelay = 500 * time.Millisecond

// ExecBackend runs an external command with the query as its final argument.
// Stdout is the payload; stderr is the diagnostic text on failure.
type ExecBackend struct {
	command string
	args    []string
	timeout time.Duration
	env     []string
	mapper  *RulesMapper
}

// NewExecBackend builds a backend for spec. A nil mapper uses the embedded rules.
func NewExecBackend(spec domain.BackendSpec, timeout time.Duration, mapper *RulesMapper) *ExecBackend {
	if mapper == nil {
		mapper = DefaultRulesMapper()
	}
	return &ExecBackend{
		command: spec.Command,
		args:    append([]string(nil), spec.Args...),
		timeout: timeout,
		mapper:  mapper,
	}
}

// WithEnv appends extra KEY=VALUE pairs to the inherited environment.
func (b *ExecBackend) WithEnv(env ...string) *ExecBackend {
	b.env = append(b.env, env...)
	return b
}

// Command returns the configured executable.
func (b *ExecBackend) Command() string {
	return b.command
}

// Fetch implements ports.Backend.
func (b *ExecBackend) Fetch(ctx context.Context, query string) ([]byte, error) {
	if strings.TrimSpace(b.command) == "" {
		return nil, &domain.FetchError{Query: query, Message: "no backend command configured", ExitCode: -1}
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), b.args...), query)
	c := exec.CommandContext(ctx, b.command, args...)
	if len(b.env) > 0 {
		c.Env = append(os.Environ(), b.env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = waitDelay

	err := c.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	fe := &domain.FetchError{Query: query, Message: strings.TrimSpace(stderr.String()), ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		fe.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() == context.DeadlineExceeded {
		fe.Message = fmt.Sprintf("backend timed out after %s", b.timeout)
	}
	if fe.Message == "" {
		fe.Message = err.Error()
	}
	return nil, fe
}

// MapError implements ports.Backend.
func (b *ExecBackend) MapError(message string) domain.Response {
	return b.mapper.Map(message)
}

var _ ports.Backend = (*ExecBackend)(nil)
