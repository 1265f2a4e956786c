package repository

import (
	"context"
	"encoding/json"

	"github.com/user/ad-intel-service/internal/entity"
)

// InsightRepository stores AI analysis results attached to ads.
type InsightRepository interface {
	// Save appends an insight record for an ad.
	Save(ctx context.Context, adID int64, insightType string, data json.RawMessage) (int64, error)
	// Latest returns the most recent insight of the given type, or
	// ErrNotFound.
	Latest(ctx context.Context, adID int64, insightType string) (*entity.AdInsight, error)
	// ListForAd returns all insights for an ad, newest first.
	ListForAd(ctx context.Context, adID int64) ([]*entity.AdInsight, error)
}
