package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"master-data-service/models"
)

const (
	SearchCachePrefix = "search:v:"
	CacheVersionKey   = "search:version"
)

// CacheManager handles all Redis caching operations
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   DefaultCacheTTL,
	}
}

// GetSearchResult retrieves a cached search page
func (cm *CacheManager) GetSearchResult(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cacheKey := cm.generateSearchCacheKey(version, req)
	cachedData, err := cm.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return nil, false
	}

	var result models.SearchResult
	if err := json.Unmarshal([]byte(cachedData), &result); err != nil {
		zap.L().Warn("Failed to unmarshal cached search result", zap.Error(err))
		return nil, false
	}

	return &result, true
}

// SetSearchResultAsync caches a search page asynchronously
func (cm *CacheManager) SetSearchResultAsync(req *models.SearchRequest, result *models.SearchResult) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		cacheKey := cm.generateSearchCacheKey(version, req)
		jsonBytes, err := json.Marshal(result)
		if err != nil {
			zap.L().Warn("Failed to marshal search result for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cacheKey, jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache search result", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all search caches by bumping the version
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	zap.L().Info("Cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// getCacheVersion retrieves the current cache version with retry logic
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			// Initialize version key if it doesn't exist
			if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				return 1, nil
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

// generateSearchCacheKey creates a unique cache key for a search page
func (cm *CacheManager) generateSearchCacheKey(version int64, req *models.SearchRequest) string {
	return fmt.Sprintf(
		"%s%d:b:%s:q:%s:l:%d:p:%d",
		SearchCachePrefix,
		version,
		req.Brand,
		req.Query,
		req.PageSize,
		req.CurrentPage,
	)
}
