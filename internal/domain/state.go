package domain

// CacheStatus records whether a cached fetch succeeded.
type CacheStatus string

const (
	CacheOK  CacheStatus = "ok"
	CacheErr CacheStatus = "err"
)

// Valid reports whether the status is one of the two recognised values.
func (s CacheStatus) Valid() bool {
	return s == CacheOK || s == CacheErr
}

// LatestRequest is the single most recently observed query for a workflow.
// Writers overwrite it unconditionally.
type LatestRequest struct {
	Sequence string
	// UpdatedAtMS is the wall clock of the last write in Unix milliseconds.
	UpdatedAtMS int64
	Query       string
}

// CacheEntry is the stored outcome of one fetch, addressed by the query hash.
type CacheEntry struct {
	Key      string
	CachedAt int64 // epoch seconds
	Status   CacheStatus
	Payload  []byte
}
