package domain

import "fmt"

// Sentinel errors.
var (
	// ErrQueryTooShort indicates the query did not reach the minimum length.
	ErrQueryTooShort = baseError("query too short")

	// ErrEmptyOutput indicates a backend succeeded but printed nothing.
	ErrEmptyOutput = baseError("empty output")

	// ErrMalformedOutput indicates backend output is not a script filter item list.
	ErrMalformedOutput = baseError("malformed output")

	// ErrInvalidProfile indicates a workflow profile failed validation.
	ErrInvalidProfile = baseError("invalid profile")

	// ErrStateUnavailable indicates the state store could not be opened.
	ErrStateUnavailable = baseError("state unavailable")
)

type baseError string

func (e baseError) Error() string { return string(e) }

// FetchError is returned by a backend whose fetch did not succeed.
type FetchError struct {
	Query string
	// Message is the diagnostic text shown to the error mapper and cached.
	Message  string
	ExitCode int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("fetch %q failed with exit code %d", e.Query, e.ExitCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StateError wraps a failure of the coordination store.
type StateError struct {
	Op   string
	Path string
	Err  error
}

func (e *StateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("state %s %s: %s", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("state %s: %s", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
