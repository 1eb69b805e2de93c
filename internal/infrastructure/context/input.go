package contextcollector

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// maxStdinBytes caps how much of stdin is taken as a query.
const maxStdinBytes = 64 << 10

// StdinReader returns a lazy stdin reader for domain.QueryInput. Stdin is
// only consumed when it is not an interactive terminal, so a run from a shell
// without piped input never blocks.
func StdinReader(f *os.File) func() (string, bool) {
	return func() (string, bool) {
		if f == nil {
			return "", false
		}
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return "", false
		}
		data, err := io.ReadAll(io.LimitReader(f, maxStdinBytes))
		if err != nil || len(data) == 0 {
			return "", false
		}
		return string(data), true
	}
}

// ReaderInput adapts an arbitrary reader. Files go through StdinReader so
// terminals are skipped; other readers are read once, up to the same cap.
func ReaderInput(r io.Reader) func() (string, bool) {
	if f, ok := r.(*os.File); ok {
		return StdinReader(f)
	}
	return func() (string, bool) {
		if r == nil {
			return "", false
		}
		data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
		if err != nil || len(data) == 0 {
			return "", false
		}
		return string(data), true
	}
}

// CollectInput assembles the query sources of one invocation: the first
// positional argument, the environment and stdin.
func CollectInput(args []string, stdin io.Reader, getenv func(string) string) domain.QueryInput {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	return domain.QueryInput{
		Arg:   arg,
		Env:   getenv,
		Stdin: ReaderInput(stdin),
	}
}
