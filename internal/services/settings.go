package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// ResolveSettings reads the per-workflow numeric knobs. Anything missing,
// non-numeric or negative silently keeps the value from base.
func ResolveSettings(getenv func(string) string, names domain.EnvNames, base domain.SearchSettings) domain.SearchSettings {
	out := base
	if getenv == nil {
		return out
	}
	if v, ok := parseNonNegativeInt(getenv(names.CacheTTL)); ok {
		out.CacheTTLSeconds = v
	}
	if v, ok := parseNonNegativeFloat(getenv(names.Settle)); ok {
		out.SettleSeconds = v
	}
	if v, ok := parseNonNegativeFloat(getenv(names.Rerun)); ok {
		out.RerunSeconds = v
	}
	if v, ok := parseNonNegativeInt(getenv(names.MinQueryChars)); ok && v > 0 {
		out.MinQueryChars = v
	}
	return out
}

func parseNonNegativeInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseNonNegativeFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
