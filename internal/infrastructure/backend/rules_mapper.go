package backend

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/alfred-sf/assets"
	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/pkg/filesystem"
)

// ErrorRule maps diagnostic text matching Pattern to a feedback row.
type ErrorRule struct {
	Pattern  string `yaml:"pattern"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules    []ErrorRule `yaml:"rules"`
	Fallback struct {
		Title string `yaml:"title"`
	} `yaml:"fallback"`
}

// RulesMapper renders backend failures as non-actionable rows using ordered
// regex rules. The first matching rule wins.
type RulesMapper struct {
	rules         []compiledRule
	fallbackTitle string
}

type compiledRule struct {
	re   *regexp.Regexp
	rule ErrorRule
}

// NewRulesMapper loads rules from path, or the embedded defaults when path is
// empty. A rules file with no rules also falls back to the defaults.
func NewRulesMapper(path string) (*RulesMapper, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return compileRules(rules)
}

// DefaultRulesMapper builds a mapper from the embedded rules only.
func DefaultRulesMapper() *RulesMapper {
	m, err := NewRulesMapper("")
	if err != nil {
		// The embedded rules are covered by tests.
		return &RulesMapper{fallbackTitle: "Request failed"}
	}
	return m
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	if path == "" {
		if err := yaml.Unmarshal(assets.DefaultErrorRulesYAML, &rules); err != nil {
			return RulesFile{}, fmt.Errorf("parse embedded error rules: %w", err)
		}
		return rules, nil
	}
	path = filesystem.ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return RulesFile{}, fmt.Errorf("read error rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse error rules %s: %w", path, err)
	}
	if len(rules.Rules) == 0 {
		return loadRules("")
	}
	return rules, nil
}

func compileRules(rules RulesFile) (*RulesMapper, error) {
	m := &RulesMapper{fallbackTitle: rules.Fallback.Title}
	if m.fallbackTitle == "" {
		m.fallbackTitle = "Request failed"
	}
	for _, rule := range rules.Rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile error rule %q: %w", rule.Pattern, err)
		}
		m.rules = append(m.rules, compiledRule{re: re, rule: rule})
	}
	return m, nil
}

// Map returns the row for message.
func (m *RulesMapper) Map(message string) domain.Response {
	message = strings.TrimSpace(message)
	summary := firstLine(message)
	for _, r := range m.rules {
		if !r.re.MatchString(message) {
			continue
		}
		subtitle := r.rule.Subtitle
		if subtitle == "" {
			subtitle = summary
		}
		return domain.InfoResponse(r.rule.Title, subtitle)
	}
	return domain.InfoResponse(m.fallbackTitle, summary)
}

// Len reports how many rules are loaded.
func (m *RulesMapper) Len() int {
	return len(m.rules)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
