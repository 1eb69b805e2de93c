package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
)

func TestNormalizeQueryFallbackOrder(t *testing.T) {
	stdin := func() (string, bool) { return "  from stdin\n", true }

	tests := []struct {
		name string
		in   domain.QueryInput
		want string
	}{
		{
			name: "argument wins",
			in: domain.QueryInput{
				Arg:   "  rust  ",
				Env:   envMap(map[string]string{domain.EnvWorkflowQuery: "env"}),
				Stdin: stdin,
			},
			want: "rust",
		},
		{
			name: "null placeholder falls through to lowercase env",
			in: domain.QueryInput{
				Arg: domain.NullArgument,
				Env: envMap(map[string]string{
					domain.EnvWorkflowQuery:      "lower",
					domain.EnvWorkflowQueryUpper: "upper",
				}),
			},
			want: "lower",
		},
		{
			name: "uppercase env after lowercase",
			in: domain.QueryInput{
				Env: envMap(map[string]string{domain.EnvWorkflowQueryUpper: " upper "}),
			},
			want: "upper",
		},
		{
			name: "stdin last",
			in:   domain.QueryInput{Env: envMap(nil), Stdin: stdin},
			want: "from stdin",
		},
		{
			name: "nothing anywhere",
			in:   domain.QueryInput{Arg: domain.NullArgument},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.in))
		})
	}
}

func TestCheckQueryLengthCountsCharacters(t *testing.T) {
	require.NoError(t, CheckQueryLength("ab", 2))
	require.NoError(t, CheckQueryLength("日本", 2))
	require.NoError(t, CheckQueryLength("", 0))

	err := CheckQueryLength("日", 2)
	require.ErrorIs(t, err, domain.ErrQueryTooShort)
}

func TestKeepTypingResponse(t *testing.T) {
	resp := KeepTypingResponse(3)
	require.Len(t, resp.Items, 1)
	assert.False(t, resp.Items[0].Valid)
	assert.Contains(t, resp.Items[0].Subtitle, "3")
	assert.Nil(t, resp.Rerun)
}

func TestResolveSettingsFailSoft(t *testing.T) {
	names := domain.EnvNamesFor("BRAVE")
	base := domain.DefaultSearchSettings()

	got := ResolveSettings(envMap(map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS":       "300",
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "1.5",
		"BRAVE_QUERY_COALESCE_RERUN_SECONDS":  "-1",
		"BRAVE_QUERY_MIN_CHARS":               "0",
	}), names, base)

	assert.Equal(t, 300, got.CacheTTLSeconds)
	assert.Equal(t, 1.5, got.SettleSeconds)
	assert.Equal(t, base.RerunSeconds, got.RerunSeconds)
	assert.Equal(t, base.MinQueryChars, got.MinQueryChars)

	got = ResolveSettings(envMap(map[string]string{
		"BRAVE_QUERY_CACHE_TTL_SECONDS":       "soon",
		"BRAVE_QUERY_COALESCE_SETTLE_SECONDS": "NaN",
		"BRAVE_QUERY_MIN_CHARS":               "4",
	}), names, base)
	assert.Equal(t, base.CacheTTLSeconds, got.CacheTTLSeconds)
	assert.Equal(t, base.SettleSeconds, got.SettleSeconds)
	assert.Equal(t, 4, got.MinQueryChars)
}

func TestPendingResponseClampsRerun(t *testing.T) {
	resp := PendingResponse("", "", 0.4)
	require.NotNil(t, resp.Rerun)
	assert.Equal(t, 0.4, *resp.Rerun)
	assert.Equal(t, domain.DefaultPendingTitle, resp.Items[0].Title)
	assert.False(t, resp.Items[0].Valid)

	assert.Equal(t, domain.MinRerunSeconds, *PendingResponse("a", "b", 0).Rerun)
	assert.Equal(t, domain.MaxRerunSeconds, *PendingResponse("a", "b", 30).Rerun)
}
