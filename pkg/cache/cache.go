// Package cache implements the search pipeline's filesystem-backed result
// cache: one JSON file per key, atomic writes, TTL expiry, and a pluggable
// content-aware invalidation hook for marine-only entries.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aurel42/zonepoi/pkg/model"
)

// Store is a filesystem-backed key→blob cache, one file per key.
type Store struct {
	dir string
	ttl time.Duration
}

// New creates a Store rooted at dir, creating the directory if missing.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// Key hashes the canonical JSON form of the request fields that determine
// the result: zone name, polygon (vertex order significant), extend_marine,
// marine_only and mode. Two requests differing only in field order in the
// wire payload still hash identically because it is the decoded struct,
// not raw bytes, that gets marshaled here.
func (s *Store) Key(req *model.SearchRequest) string {
	keyable := struct {
		ZoneName     string           `json:"zone_name"`
		Polygon      []model.LatLng   `json:"polygon"`
		ExtendMarine bool             `json:"extend_marine"`
		MarineOnly   bool             `json:"marine_only"`
		Mode         model.SearchMode `json:"mode"`
	}{
		ZoneName:     req.ZoneName,
		Polygon:      req.Polygon,
		ExtendMarine: req.ExtendMarine,
		MarineOnly:   req.MarineOnly,
		Mode:         req.Mode,
	}
	data, _ := json.Marshal(keyable)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// entry is the on-disk envelope: a small header plus the cached result.
type entry struct {
	CachedAt     time.Time           `json:"cached_at"`
	ZoneName     string              `json:"zone_name"`
	ExtendMarine bool                `json:"extend_marine"`
	Mode         model.SearchMode    `json:"mode"`
	Result       *model.SearchResult `json:"result"`
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the entry for key. It returns a miss if the file is absent,
// corrupt, or expired. When marineOnly is true and validate is non-nil, the
// decoded result is also passed through validate; a false return triggers
// content-aware invalidation: the stale file is removed and a miss is
// reported, exactly as a never-written entry would be.
func (s *Store) Get(key string, marineOnly bool, validate func(*model.SearchResult) bool) (*model.SearchResult, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}

	if time.Since(e.CachedAt) > s.ttl {
		_ = os.Remove(s.path(key))
		return nil, false
	}

	if marineOnly && validate != nil && !validate(e.Result) {
		_ = os.Remove(s.path(key))
		return nil, false
	}

	return e.Result, true
}

// Set stores result under key, serializing header plus payload and writing
// atomically via write-to-temp-then-rename. Two concurrent writers to the
// same key may race; the later rename wins, which is an accepted outcome.
func (s *Store) Set(key, zoneName string, extendMarine bool, mode model.SearchMode, result *model.SearchResult) error {
	e := entry{
		CachedAt:     time.Now(),
		ZoneName:     zoneName,
		ExtendMarine: extendMarine,
		Mode:         mode,
		Result:       result,
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	final := s.path(key)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache temp file: %w", err)
	}
	return nil
}

// Invalidate removes the entry for key unconditionally; used by the
// INVALIDATE_CACHE feature flag to force a miss.
func (s *Store) Invalidate(key string) {
	_ = os.Remove(s.path(key))
}

// ForbiddenMarineSources lists sources a marine-only cache entry must never
// contain: marine-only searches query only OSM and web search.
var ForbiddenMarineSources = map[model.Source]bool{
	model.SourceWikiEncyclopedia: true,
	model.SourceWikibase:         true,
	model.SourceDBpedia:          true,
}

// ValidMarineEntry is the default content-aware check for marine-only
// results: it rejects empty results and any entry containing a POI sourced
// from a provider marine mode never calls. pkg/search composes it with a
// known-collision-wreck name check (validMarineCacheEntry); descriptions
// are not checked for out-of-zone geography.
func ValidMarineEntry(result *model.SearchResult) bool {
	if result == nil || len(result.POIs) == 0 {
		return false
	}
	for _, poi := range result.POIs {
		if ForbiddenMarineSources[poi.Source] {
			return false
		}
	}
	return true
}
