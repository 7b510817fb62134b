// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"career-guidance-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const activeCacheKey = "catalog:active"

var ErrCatalogNotPublished = errors.New("CATALOG_NOT_PUBLISHED")

// Store keeps published catalog versions in Postgres and caches the active
// one in Redis.
type Store struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, redis *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog-store"}),
	}
}

// LoadActive returns the most recently published catalog.
func (s *Store) LoadActive(ctx context.Context) (*Catalog, error) {
	if val, err := s.redis.Get(ctx, activeCacheKey).Result(); err == nil {
		c, perr := Parse([]byte(val))
		if perr == nil {
			return c, nil
		}
		s.logger.Warn("cached catalog is unreadable, reloading", map[string]interface{}{
			"error": perr,
		})
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("catalog cache lookup failed", map[string]interface{}{
			"error": err,
		})
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM catalog_versions
		ORDER BY published_at DESC
		LIMIT 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCatalogNotPublished
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	c, err := Parse(doc)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, activeCacheKey, doc, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache catalog", map[string]interface{}{
			"error":   err,
			"version": c.Version,
		})
	}

	s.logger.Info("catalog loaded", map[string]interface{}{
		"version": c.Version,
		"majors":  len(c.Majors),
	})
	return c, nil
}

// Publish stores c as the active version. Re-publishing a version replaces it.
func (s *Store) Publish(ctx context.Context, c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_versions (version, document, published_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (version) DO UPDATE
		SET document = EXCLUDED.document, published_at = EXCLUDED.published_at`,
		c.Version, doc, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("publish catalog %s: %w", c.Version, err)
	}

	if err := s.redis.Del(ctx, activeCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", map[string]interface{}{
			"error": err,
		})
	}

	s.logger.Info("catalog published", map[string]interface{}{
		"version": c.Version,
	})
	return nil
}
