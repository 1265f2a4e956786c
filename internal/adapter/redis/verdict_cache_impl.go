// Package redis implements the verdict cache on Redis so repeated
// relevance checks of the same ad are answered without a model call.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/ad-intel-service/internal/entity"
)

const verdictPrefix = "verdict:"

// VerdictCacheImpl provides a concrete implementation for the VerdictCache interface using Redis.
type VerdictCacheImpl struct {
	client *redis.Client
}

// NewVerdictCache creates a new instance of VerdictCacheImpl.
func NewVerdictCache(client *redis.Client) *VerdictCacheImpl {
	return &VerdictCacheImpl{client: client}
}

func (c *VerdictCacheImpl) Get(ctx context.Context, key string) (*entity.RelevanceVerdict, bool, error) {
	raw, err := c.client.Get(ctx, verdictPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var verdict entity.RelevanceVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, false, fmt.Errorf("decode cached verdict: %w", err)
	}
	return &verdict, true, nil
}

func (c *VerdictCacheImpl) Set(ctx context.Context, key string, verdict entity.RelevanceVerdict, ttl time.Duration) error {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	// SETEX is atomic and sets the key with an expiry.
	return c.client.SetEx(ctx, verdictPrefix+key, raw, ttl).Err()
}
