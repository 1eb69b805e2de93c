package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/services"
)

// NewWatchCommand creates the watch command: a long-lived debounce loop that
// reads one query per line and prints one JSON line per settled query.
func NewWatchCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Debounce queries read line by line from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return watchQueries(cmd, container.Workflow.Key, container.Settings().MinQueryChars,
				container.NewDebouncer, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type debouncerBuilder func(emit func(workflow, query string, out []byte)) *services.Debouncer

func watchQueries(cmd *cobra.Command, workflow string, minChars int, build debouncerBuilder, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	var writeErr error
	emit := func(_ string, _ string, payload []byte) {
		mu.Lock()
		defer mu.Unlock()
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(out, "%s\n", payload)
	}

	debouncer := build(emit)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if err := services.CheckQueryLength(query, minChars); err != nil {
			debouncer.Cancel(workflow)
			emit(workflow, query, services.KeepTypingResponse(minChars).Encode())
			continue
		}
		debouncer.Submit(cmd.Context(), workflow, query)
	}
	debouncer.Drain()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	return writeErr
}
