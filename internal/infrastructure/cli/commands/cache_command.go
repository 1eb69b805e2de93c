package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/app"
	"github.com/doeshing/alfred-sf/internal/domain"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(factory ContainerFactory) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear a workflow's cached results",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(factory),
		newCacheClearCommand(factory),
		newCacheStatsCommand(factory),
	)

	return cacheCmd
}

func newCacheListCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), factory, func(c *app.Container) error {
				return listCacheEntries(cmd.Context(), cmd.OutOrStdout(), c, time.Now())
			})
		},
	}
}

func newCacheClearCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the workflow's request pointer and cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), factory, func(c *app.Container) error {
				if err := c.Store.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgCacheCleared)
				return nil
			})
		},
	}
}

func newCacheStatsCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache settings and entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), factory, func(c *app.Container) error {
				return showCacheStats(cmd.Context(), cmd.OutOrStdout(), c, time.Now())
			})
		},
	}
}

func withContainer(ctx context.Context, factory ContainerFactory, fn func(*app.Container) error) error {
	container, err := factory(ctx)
	if err != nil {
		return err
	}
	defer container.Close()
	return fn(container)
}

// listCacheEntries prints one line per entry: short key, status, size, age.
func listCacheEntries(ctx context.Context, out io.Writer, container *app.Container, now time.Time) error {
	entries, err := container.Store.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedResponses)
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			shortKey(entry.Key),
			entry.Status,
			humanize.Bytes(uint64(len(entry.Payload))),
			humanize.RelTime(time.Unix(entry.CachedAt, 0), now, "ago", "from now"))
	}
	return nil
}

// showCacheStats prints the effective settings and per-status counts.
func showCacheStats(ctx context.Context, out io.Writer, container *app.Container, now time.Time) error {
	settings := container.Settings()
	entries, err := container.Store.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	ttl := "disabled"
	if settings.CacheTTLSeconds > 0 {
		ttl = (time.Duration(settings.CacheTTLSeconds) * time.Second).String()
	}
	fmt.Fprintf(out, "Workflow: %s\nState: %s (%s)\nCache TTL: %s\nSettle window: %gs\nRerun interval: %gs\n",
		container.Workflow.Key,
		container.Store.Dir(),
		container.Profile.StateBackend,
		ttl,
		settings.SettleSeconds,
		settings.RerunSeconds)

	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedResponses)
		return nil
	}

	counts := map[domain.CacheStatus]int{}
	var total uint64
	var live int
	oldest := entries[0].CachedAt
	for _, entry := range entries {
		counts[entry.Status]++
		total += uint64(len(entry.Payload))
		if entry.CachedAt < oldest {
			oldest = entry.CachedAt
		}
		if age := now.Unix() - entry.CachedAt; settings.CacheTTLSeconds > 0 && age >= 0 && age <= int64(settings.CacheTTLSeconds) {
			live++
		}
	}
	fmt.Fprintf(out, "Entries: %d (%d ok, %d err, %d live)\nPayload size: %s\nOldest: %s\n",
		len(entries),
		counts[domain.CacheOK],
		counts[domain.CacheErr],
		live,
		humanize.Bytes(total),
		humanize.RelTime(time.Unix(oldest, 0), now, "ago", "from now"))
	return nil
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
