// Package contextcollector resolves everything an invocation learns from its
// host environment: the workflow's state namespace and the raw query input.
package contextcollector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// SanitizeKey keeps ASCII letters, digits, '.', '_' and '-' and replaces
// everything else with '_'. An empty label becomes "default".
func SanitizeKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	key := b.String()
	if key == "" || strings.Trim(key, ".") == "" {
		return "default"
	}
	return key
}

// ResolveCacheRoot picks the workflow cache directory, then the workflow data
// directory, then a temp directory suffixed with fallbackLabel.
func ResolveCacheRoot(getenv func(string) string, fallbackLabel string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if dir := strings.TrimSpace(getenv(domain.EnvWorkflowCache)); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(getenv(domain.EnvWorkflowData)); dir != "" {
		return dir
	}
	label := SanitizeKey(fallbackLabel)
	return filepath.Join(os.TempDir(), label)
}

// ResolveWorkflowContext builds the namespace for one invocation.
func ResolveWorkflowContext(getenv func(string) string, label, fallbackLabel string) domain.WorkflowContext {
	return domain.WorkflowContext{
		Key:       SanitizeKey(label),
		CacheRoot: ResolveCacheRoot(getenv, fallbackLabel),
	}
}
