package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// NormalizeQuery resolves the effective query: the primary argument, unless it
// is empty or the host's "(null)" placeholder, in which case the lowercase
// and then uppercase query variables and finally stdin are consulted. The
// result is trimmed of surrounding whitespace.
func NormalizeQuery(in domain.QueryInput) string {
	raw := in.Arg
	if raw == "" || raw == domain.NullArgument {
		raw = ""
		if in.Env != nil {
			raw = in.Env(domain.EnvWorkflowQuery)
			if raw == "" {
				raw = in.Env(domain.EnvWorkflowQueryUpper)
			}
		}
		if raw == "" && in.Stdin != nil {
			if s, ok := in.Stdin(); ok {
				raw = s
			}
		}
	}
	return strings.TrimSpace(raw)
}

// CheckQueryLength rejects queries with fewer than minChars characters.
func CheckQueryLength(query string, minChars int) error {
	if minChars <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(query); n < minChars {
		return fmt.Errorf("%w: %d of %d characters", domain.ErrQueryTooShort, n, minChars)
	}
	return nil
}

// KeepTypingResponse is the guidance row for a sub-minimum query.
func KeepTypingResponse(minChars int) domain.Response {
	return domain.InfoResponse(domain.KeepTypingTitle, fmt.Sprintf(domain.KeepTypingSubtitleFmt, minChars))
}
