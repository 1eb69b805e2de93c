package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/pkg/filesystem"
	"github.com/doeshing/alfred-sf/internal/ports"
)

const (
	latestFile    = "request.latest"
	cacheDir      = "cache"
	metaSuffix    = ".meta"
	payloadSuffix = ".payload"
)

// FileStore keeps coordination state under a workflow's state directory.
// Every write goes through write-temp-then-rename; there is no locking.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at the workflow's state directory.
func NewFileStore(wc domain.WorkflowContext) *FileStore {
	return &FileStore{dir: wc.StateDir()}
}

// NewFileStoreAt returns a store rooted at dir.
func NewFileStoreAt(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// LatestRequest reads request.latest. The file holds one header line
// "<sequence>\t<updated_at seconds>" followed by the raw query.
func (s *FileStore) LatestRequest(context.Context) (domain.LatestRequest, bool, error) {
	path := filepath.Join(s.dir, latestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.LatestRequest{}, false, nil
		}
		return domain.LatestRequest{}, false, &domain.StateError{Op: "read", Path: path, Err: err}
	}
	header, query, found := strings.Cut(string(data), "\n")
	if !found {
		return domain.LatestRequest{}, false, &domain.StateError{Op: "parse", Path: path, Err: errors.New("missing header")}
	}
	seq, stamp, found := strings.Cut(header, "\t")
	if !found {
		return domain.LatestRequest{}, false, &domain.StateError{Op: "parse", Path: path, Err: errors.New("missing timestamp")}
	}
	seconds, err := strconv.ParseFloat(stamp, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return domain.LatestRequest{}, false, &domain.StateError{Op: "parse", Path: path, Err: fmt.Errorf("timestamp %q", stamp)}
	}
	return domain.LatestRequest{
		Sequence:    seq,
		UpdatedAtMS: int64(math.Round(seconds * 1000)),
		Query:       query,
	}, true, nil
}

func (s *FileStore) SetLatestRequest(_ context.Context, req domain.LatestRequest) error {
	if err := os.MkdirAll(s.dir, domain.DirectoryPermissions); err != nil {
		return &domain.StateError{Op: "mkdir", Path: s.dir, Err: err}
	}
	seconds := strconv.FormatFloat(float64(req.UpdatedAtMS)/1000, 'f', 3, 64)
	body := req.Sequence + "\t" + seconds + "\n" + req.Query
	path := filepath.Join(s.dir, latestFile)
	if err := filesystem.WriteFileAtomic(path, []byte(body), domain.FilePermissions); err != nil {
		return &domain.StateError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// CacheEntry reads "<hash>.meta" ("<epoch>\t<status>\t<sha256>") and
// "<hash>.payload". Absent files are a miss, and so is a payload whose digest
// does not match the meta file: the two renames are not atomic as a pair, so a
// reader racing a writer can see the meta of one write and the payload of
// another. An unreadable timestamp is an error.
func (s *FileStore) CacheEntry(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	metaPath, payloadPath := s.entryPaths(key)
	meta, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, &domain.StateError{Op: "read", Path: metaPath, Err: err}
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, &domain.StateError{Op: "read", Path: payloadPath, Err: err}
	}
	fields := strings.Split(strings.TrimSpace(string(meta)), "\t")
	cachedAt, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.CacheEntry{}, false, &domain.StateError{Op: "parse", Path: metaPath, Err: fmt.Errorf("timestamp %q", fields[0])}
	}
	if len(fields) != 3 || fields[2] != payloadDigest(payload) {
		return domain.CacheEntry{}, false, nil
	}
	return domain.CacheEntry{
		Key:      key,
		CachedAt: cachedAt,
		Status:   domain.CacheStatus(fields[1]),
		Payload:  payload,
	}, true, nil
}

// SetCacheEntry writes the payload before the meta file. The meta file carries
// the payload digest, so CacheEntry only pairs a meta file with the payload it
// was written for.
func (s *FileStore) SetCacheEntry(_ context.Context, entry domain.CacheEntry) error {
	dir := filepath.Join(s.dir, cacheDir)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return &domain.StateError{Op: "mkdir", Path: dir, Err: err}
	}
	metaPath, payloadPath := s.entryPaths(entry.Key)
	if err := filesystem.WriteFileAtomic(payloadPath, entry.Payload, domain.FilePermissions); err != nil {
		return &domain.StateError{Op: "write", Path: payloadPath, Err: err}
	}
	meta := strings.Join([]string{
		strconv.FormatInt(entry.CachedAt, 10),
		string(entry.Status),
		payloadDigest(entry.Payload),
	}, "\t")
	if err := filesystem.WriteFileAtomic(metaPath, []byte(meta), domain.FilePermissions); err != nil {
		return &domain.StateError{Op: "write", Path: metaPath, Err: err}
	}
	return nil
}

func payloadDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Dir exposes the state directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// Clear removes the workflow's whole state directory.
func (s *FileStore) Clear(context.Context) error {
	return os.RemoveAll(s.dir)
}

// Entries lists readable cache entries (best-effort), ordered by key.
func (s *FileStore) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	files, err := os.ReadDir(filepath.Join(s.dir, cacheDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []domain.CacheEntry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, metaSuffix) {
			continue
		}
		entry, ok, err := s.CacheEntry(ctx, strings.TrimSuffix(name, metaSuffix))
		if err != nil || !ok {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *FileStore) entryPaths(key string) (meta, payload string) {
	base := filepath.Join(s.dir, cacheDir, key)
	return base + metaSuffix, base + payloadSuffix
}

var _ ports.StateStore = (*FileStore)(nil)
var _ ports.CacheInspector = (*FileStore)(nil)
