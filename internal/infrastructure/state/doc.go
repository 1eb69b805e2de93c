// Package state provides StateStore adapters for the coalescing core.
//
// FileStore keeps the on-disk layout shared by every script filter process:
//
//	<cache_root>/script-filter-coalesce/<workflow_key>/request.latest
//	<cache_root>/script-filter-coalesce/<workflow_key>/cache/<hash>.meta
//	<cache_root>/script-filter-coalesce/<workflow_key>/cache/<hash>.payload
//
// A ".meta" file holds "<epoch>\t<status>\t<sha256 of payload>" and is
// renamed into place after its payload; an entry whose digest does not match
// its payload reads as a miss.
//
// SQLiteStore keeps the same records in a single database file, and
// MemoryStore serves long-lived processes and tests.
package state
