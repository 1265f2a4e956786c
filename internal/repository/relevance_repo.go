package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/user/ad-intel-service/internal/entity"
)

// RelevanceChecker classifies whether an ad matches the session's search
// keywords. Failures are encoded in the verdict (VerdictCheckFailed),
// never as an error: the fail-open policy is the caller's explicit
// branch, not the checker's.
type RelevanceChecker interface {
	Check(ctx context.Context, adCopy, advertiser, keywords string) entity.RelevanceVerdict
}

// VerdictCache persists relevance verdicts so repeated checks of the
// same ad/keywords input return the same answer without re-invoking the
// classifier.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*entity.RelevanceVerdict, bool, error)
	Set(ctx context.Context, key string, verdict entity.RelevanceVerdict, ttl time.Duration) error
}

// AdAnalyzer produces the deeper AI analyses attached to stored ads.
type AdAnalyzer interface {
	// Analyze returns the structured analysis JSON for one ad's copy.
	Analyze(ctx context.Context, ad *entity.CapturedAd) (json.RawMessage, error)
	// Aggregate summarizes a set of per-ad analyses for one search.
	Aggregate(ctx context.Context, analyses []json.RawMessage) (json.RawMessage, error)
}
