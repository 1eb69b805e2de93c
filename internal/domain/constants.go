package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for state files (rw-r--r--)
	FilePermissions = 0o644
)

// Host environment variables
const (
	// EnvWorkflowQuery is the lowercase query variable set by the host.
	EnvWorkflowQuery = "alfred_workflow_query"
	// EnvWorkflowQueryUpper is the alternate-cased query variable.
	EnvWorkflowQueryUpper = "ALFRED_WORKFLOW_QUERY"
	// EnvWorkflowCache is the host's per-workflow cache directory.
	EnvWorkflowCache = "alfred_workflow_cache"
	// EnvWorkflowData is the host's per-workflow data directory.
	EnvWorkflowData = "alfred_workflow_data"
	// EnvHostDebug is set to 1 when the host debugger is open.
	EnvHostDebug = "alfred_debug"
)

// Tool environment variables
const (
	EnvConfigPath = "ALFRED_SF_CONFIG"
	EnvDebug      = "ALFRED_SF_DEBUG"
)

// Per-workflow environment variable suffixes, appended to "<PREFIX>_".
const (
	SuffixCacheTTL      = "QUERY_CACHE_TTL_SECONDS"
	SuffixSettleSeconds = "QUERY_COALESCE_SETTLE_SECONDS"
	SuffixRerunSeconds  = "QUERY_COALESCE_RERUN_SECONDS"
	SuffixMinQueryChars = "QUERY_MIN_CHARS"
)

// NullArgument is the literal the host passes when no argument was typed.
const NullArgument = "(null)"

// CoalesceNamespace is the directory under the cache root holding per-workflow state.
const CoalesceNamespace = "script-filter-coalesce"

// Coalescing defaults
const (
	DefaultCacheTTLSeconds = 0
	DefaultSettleSeconds   = 2.0
	DefaultRerunSeconds    = 0.4
	DefaultMinQueryChars   = 2
	// MinRerunSeconds and MaxRerunSeconds bound the rerun directive the host accepts.
	MinRerunSeconds = 0.1
	MaxRerunSeconds = 5.0
)

// Pending response copy
const (
	DefaultPendingTitle    = "Searching..."
	DefaultPendingSubtitle = "Waiting for typing to settle"
	KeepTypingTitle        = "Keep typing..."
	KeepTypingSubtitleFmt  = "Type at least %d characters to search"
)

// DefaultBackendTimeout bounds an exec backend when the profile sets none.
const DefaultBackendTimeout = 10 * time.Second
