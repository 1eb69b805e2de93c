package domain

import (
	"fmt"
	"time"
)

// Config mirrors ~/.alfred-sf/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Workflows           []WorkflowProfile `yaml:"workflows" validate:"dive"`
}

// WorkflowProfile describes one search-backed workflow.
type WorkflowProfile struct {
	Key                string         `yaml:"key" validate:"required"`
	EnvPrefix          string         `yaml:"env_prefix" validate:"omitempty,uppercase"`
	CacheFallbackLabel string         `yaml:"cache_fallback_label"`
	PendingTitle       string         `yaml:"pending_title"`
	PendingSubtitle    string         `yaml:"pending_subtitle"`
	MinQueryChars      int            `yaml:"min_query_chars" validate:"gte=0"`
	StateBackend       string         `yaml:"state_backend" validate:"omitempty,oneof=file sqlite memory"`
	Backend            BackendSpec    `yaml:"backend"`
	Errors             ErrorRulesSpec `yaml:"errors"`
}

// BackendSpec is the external command acting as the fetch callback.
type BackendSpec struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Timeout string   `yaml:"timeout"`
}

// ErrorRulesSpec points at the YAML rules used to map failures to rows.
type ErrorRulesSpec struct {
	RulesFile string `yaml:"rules_file"`
}

// State backends
const (
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
	StateBackendMemory = "memory"
)

// Profile finds a workflow profile by key.
func (c Config) Profile(key string) (WorkflowProfile, error) {
	for _, p := range c.Workflows {
		if p.Key == key {
			return p.WithDefaults(), nil
		}
	}
	return WorkflowProfile{}, fmt.Errorf("workflow %q not configured", key)
}

// WithDefaults fills unset presentation and storage fields.
func (p WorkflowProfile) WithDefaults() WorkflowProfile {
	if p.CacheFallbackLabel == "" {
		p.CacheFallbackLabel = "alfred-sf-" + p.Key
	}
	if p.PendingTitle == "" {
		p.PendingTitle = DefaultPendingTitle
	}
	if p.PendingSubtitle == "" {
		p.PendingSubtitle = DefaultPendingSubtitle
	}
	if p.MinQueryChars <= 0 {
		p.MinQueryChars = DefaultMinQueryChars
	}
	if p.StateBackend == "" {
		p.StateBackend = StateBackendFile
	}
	return p
}

// BackendTimeout parses the backend timeout, falling back to the default.
func (p WorkflowProfile) BackendTimeout() time.Duration {
	if p.Backend.Timeout == "" {
		return DefaultBackendTimeout
	}
	d, err := time.ParseDuration(p.Backend.Timeout)
	if err != nil || d <= 0 {
		return DefaultBackendTimeout
	}
	return d
}
