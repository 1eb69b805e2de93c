package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose(), Getenv: os.Getenv}

	root := cli.NewRootCmd(ctx, opts)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	for _, name := range []string{domain.EnvDebug, domain.EnvHostDebug} {
		v := os.Getenv(name)
		if v == "1" || strings.EqualFold(v, "true") {
			return true
		}
	}
	return false
}
