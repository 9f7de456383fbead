package garments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eccearchive/ecce/internal/cms"
)

// Cache keys for the garment list. The fresh key expires after the
// revalidation window; the stale key never expires and is only read when
// the CMS is unreachable, so a CMS outage degrades to slightly old content
// instead of an empty archive.
const (
	cacheKeyFresh = "garments:all"
	cacheKeyStale = "garments:all:stale"
)

// GarmentRepository provides the full garment list. Callers get their own
// slice on every call; records come out of a JSON round-trip, so mutating
// them cannot corrupt the cache.
type GarmentRepository interface {
	ListAll(ctx context.Context) ([]Garment, error)
}

// recordSource is the slice of the CMS client the repository depends on.
type recordSource interface {
	GarmentRecords(ctx context.Context) ([]cms.GarmentRecord, error)
}

// cachedRepository is a Redis-backed read-through cache over the CMS.
type cachedRepository struct {
	source recordSource
	redis  *redis.Client
	ttl    time.Duration
}

// NewCachedRepository creates a repository that caches the CMS garment
// list in Redis for the given revalidation window.
func NewCachedRepository(source recordSource, rdb *redis.Client, ttl time.Duration) GarmentRepository {
	return &cachedRepository{source: source, redis: rdb, ttl: ttl}
}

// ListAll returns every well-formed garment record. Cache hit is the fast
// path; on a miss it fetches from the CMS and repopulates both cache keys.
// Refreshing is idempotent (fetch-and-replace), so concurrent misses are
// harmless beyond a duplicate fetch.
func (r *cachedRepository) ListAll(ctx context.Context) ([]Garment, error) {
	if cached, ok := r.readCache(ctx, cacheKeyFresh); ok {
		return cached, nil
	}

	records, err := r.source.GarmentRecords(ctx)
	if err != nil {
		// CMS unreachable -- serve the stale copy if we have one.
		if stale, ok := r.readCache(ctx, cacheKeyStale); ok {
			slog.Warn("serving stale garment list, CMS fetch failed",
				slog.Any("error", err),
			)
			return stale, nil
		}
		return nil, fmt.Errorf("fetching garment list: %w", err)
	}

	garments := make([]Garment, 0, len(records))
	dropped := 0
	for _, rec := range records {
		g, ok := fromRecord(rec)
		if !ok {
			dropped++
			continue
		}
		garments = append(garments, g)
	}
	if dropped > 0 {
		slog.Warn("dropped malformed garment records",
			slog.Int("count", dropped),
		)
	}

	r.writeCache(ctx, garments)

	return garments, nil
}

// readCache returns the cached list under the given key, or ok=false on a
// miss. Redis errors count as misses: the cache is an optimization, never
// a reason to fail a request.
func (r *cachedRepository) readCache(ctx context.Context, key string) ([]Garment, bool) {
	data, err := r.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("garment cache read failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}

	var garments []Garment
	if err := json.Unmarshal(data, &garments); err != nil {
		slog.Warn("garment cache holds invalid JSON, ignoring",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	}
	return garments, true
}

// writeCache stores the list under both the fresh key (with TTL) and the
// stale fallback key (no TTL). Write failures are logged and ignored.
func (r *cachedRepository) writeCache(ctx context.Context, garments []Garment) {
	data, err := json.Marshal(garments)
	if err != nil {
		slog.Warn("encoding garment list for cache failed", slog.Any("error", err))
		return
	}

	if err := r.redis.Set(ctx, cacheKeyFresh, data, r.ttl).Err(); err != nil {
		slog.Warn("garment cache write failed", slog.Any("error", err))
	}
	if err := r.redis.Set(ctx, cacheKeyStale, data, 0).Err(); err != nil {
		slog.Warn("garment stale-cache write failed", slog.Any("error", err))
	}
}
