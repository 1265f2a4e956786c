package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
	"github.com/user/ad-intel-service/pkg/utils"
)

// CachedChecker decorates a RelevanceChecker with the verdict cache.
// Failed checks are never cached so a transient model outage does not
// pin CheckFailed for the TTL.
type CachedChecker struct {
	inner repository.RelevanceChecker
	cache repository.VerdictCache
	ttl   time.Duration
}

// NewCachedChecker creates a new instance of CachedChecker.
func NewCachedChecker(inner repository.RelevanceChecker, cache repository.VerdictCache, ttl time.Duration) *CachedChecker {
	return &CachedChecker{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedChecker) Check(ctx context.Context, adCopy, advertiser, keywords string) entity.RelevanceVerdict {
	key := utils.HashKey(keywords, advertiser, adCopy)

	if cached, hit, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("Verdict cache read failed", "error", err)
	} else if hit {
		return *cached
	}

	verdict := c.inner.Check(ctx, adCopy, advertiser, keywords)

	if verdict.State != entity.VerdictCheckFailed {
		if err := c.cache.Set(ctx, key, verdict, c.ttl); err != nil {
			slog.Warn("Verdict cache write failed", "error", err)
		}
	}
	return verdict
}
