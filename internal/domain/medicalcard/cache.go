package medicalcard

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medcard/medcard/internal/kvstore"
)

const cacheKeyPrefix = "medical_result_"

var whitespaceRuns = regexp.MustCompile(`\s+`)

// CacheKey returns the cache key for a worker: the name with whitespace runs
// collapsed to underscores, under the medical_result_ prefix. Keys are not
// unique across workers sharing a name; the cache is cosmetic, not a
// correctness-critical store.
func CacheKey(workerName string) string {
	return cacheKeyPrefix + whitespaceRuns.ReplaceAllString(strings.TrimSpace(workerName), "_")
}

// resultCache is the best-effort mapping from a worker to the last uploaded
// result's metadata. Every failure is recovered locally: corrupt entries are
// deleted, write errors are logged and swallowed.
type resultCache struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// Load returns the cached ResultFile for the worker, or nil when the entry is
// absent. Entries that fail to parse or fail the structural check are deleted
// and reported as absent, so the caller falls back to its own initial state.
func (c *resultCache) Load(ctx context.Context, workerName string) *ResultFile {
	key := CacheKey(workerName)

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil
	}

	var f ResultFile
	if err := json.Unmarshal([]byte(raw), &f); err != nil || !f.structurallyValid() {
		if delErr := c.store.Delete(ctx, key); delErr != nil {
			c.logger.Warn().Err(delErr).Str("key", key).Msg("failed to clear corrupt cache entry")
		}
		return nil
	}
	return &f
}

// Save persists the result metadata under the worker's key. Failures are
// logged only; persistence never blocks the upload flow.
func (c *resultCache) Save(ctx context.Context, workerName string, f *ResultFile) {
	raw, err := json.Marshal(f)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode cache entry")
		return
	}
	key := CacheKey(workerName)
	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
