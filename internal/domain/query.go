package domain

// QueryInput carries every place the host may have put the query.
type QueryInput struct {
	Arg   string
	Env   func(string) string
	Stdin func() (string, bool)
}

// SearchSettings are the numeric knobs resolved per invocation.
type SearchSettings struct {
	CacheTTLSeconds int
	SettleSeconds   float64
	RerunSeconds    float64
	MinQueryChars   int
}

// DefaultSearchSettings returns the settings used when nothing is configured.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		CacheTTLSeconds: DefaultCacheTTLSeconds,
		SettleSeconds:   DefaultSettleSeconds,
		RerunSeconds:    DefaultRerunSeconds,
		MinQueryChars:   DefaultMinQueryChars,
	}
}

// EnvNames derives the per-workflow environment variable names for a prefix.
type EnvNames struct {
	CacheTTL      string
	Settle        string
	Rerun         string
	MinQueryChars string
}

// EnvNamesFor builds the variable names for prefix, e.g. BRAVE_QUERY_CACHE_TTL_SECONDS.
func EnvNamesFor(prefix string) EnvNames {
	p := prefix
	if p != "" {
		p += "_"
	}
	return EnvNames{
		CacheTTL:      p + SuffixCacheTTL,
		Settle:        p + SuffixSettleSeconds,
		Rerun:         p + SuffixRerunSeconds,
		MinQueryChars: p + SuffixMinQueryChars,
	}
}
