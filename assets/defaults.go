package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultErrorRulesYAML contains the embedded rules that map backend
// failures to feedback rows.
//
//go:embed defaults/error_rules.yaml
var DefaultErrorRulesYAML []byte
