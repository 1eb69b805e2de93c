package commands

import (
	"context"

	"github.com/doeshing/alfred-sf/internal/app"
)

// ContainerFactory builds the container once flags are known.
type ContainerFactory func(ctx context.Context) (*app.Container, error)

// Feedback rows for failures that happen before a flow can run.
const (
	TitleWorkflowMisconfigured = "Workflow misconfigured"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoCachedResponses        = "No cached responses."
	MsgCacheCleared             = "Cache cleared."
)

// TimestampFormat is used when printing absolute times.
const TimestampFormat = "2006-01-02 15:04:05"
