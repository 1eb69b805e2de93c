package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/alfred-sf/internal/domain"
)

var (
	validateOnce sync.Once
	structs      *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structs = validator.New(validator.WithRequiredStructEnabled())
	})
	return structs
}

// Validate ensures the configuration is consistent: struct constraints on
// every profile, unique keys, and parseable backend timeouts.
func Validate(cfg domain.Config) error {
	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidProfile, describe(verrs))
		}
		return err
	}
	seen := make(map[string]bool, len(cfg.Workflows))
	for _, p := range cfg.Workflows {
		if seen[p.Key] {
			return fmt.Errorf("%w: duplicate workflow key %q", domain.ErrInvalidProfile, p.Key)
		}
		seen[p.Key] = true
		if p.Backend.Timeout != "" {
			if d, err := time.ParseDuration(p.Backend.Timeout); err != nil || d <= 0 {
				return fmt.Errorf("%w: workflow %q backend.timeout %q is not a positive duration",
					domain.ErrInvalidProfile, p.Key, p.Backend.Timeout)
			}
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
