package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

// InsightRepoImpl provides a concrete implementation for the InsightRepository interface using PostgreSQL.
type InsightRepoImpl struct {
	db *pgxpool.Pool
}

// NewInsightRepo creates a new instance of InsightRepoImpl.
func NewInsightRepo(db *pgxpool.Pool) *InsightRepoImpl {
	return &InsightRepoImpl{db: db}
}

func (r *InsightRepoImpl) Save(ctx context.Context, adID int64, insightType string, data json.RawMessage) (int64, error) {
	query := `
		INSERT INTO ad_insights (ad_id, insight_type, insight_data)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, adID, insightType, data).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *InsightRepoImpl) Latest(ctx context.Context, adID int64, insightType string) (*entity.AdInsight, error) {
	query := `
		SELECT id, ad_id, insight_type, insight_data, created_at
		FROM ad_insights
		WHERE ad_id = $1 AND insight_type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1;
	`
	var in entity.AdInsight
	err := r.db.QueryRow(ctx, query, adID, insightType).Scan(&in.ID, &in.AdID, &in.InsightType, &in.InsightData, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *InsightRepoImpl) ListForAd(ctx context.Context, adID int64) ([]*entity.AdInsight, error) {
	query := `
		SELECT id, ad_id, insight_type, insight_data, created_at
		FROM ad_insights
		WHERE ad_id = $1
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query, adID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []*entity.AdInsight{}
	for rows.Next() {
		var in entity.AdInsight
		if err := rows.Scan(&in.ID, &in.AdID, &in.InsightType, &in.InsightData, &in.CreatedAt); err != nil {
			return nil, err
		}
		insights = append(insights, &in)
	}
	return insights, rows.Err()
}
