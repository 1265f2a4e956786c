package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/ad-intel-service/internal/entity"
)

// SearchRepoImpl provides a concrete implementation for the SearchRepository interface using PostgreSQL.
type SearchRepoImpl struct {
	db *pgxpool.Pool
}

// NewSearchRepo creates a new instance of SearchRepoImpl.
func NewSearchRepo(db *pgxpool.Pool) *SearchRepoImpl {
	return &SearchRepoImpl{db: db}
}

func (r *SearchRepoImpl) Create(ctx context.Context, search *entity.Search) (int64, error) {
	query := `
		INSERT INTO searches (industry, location, keywords, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		search.Industry,
		search.Location,
		search.Keywords,
		entity.SearchStatusRunning,
	).Scan(&search.ID, &search.CreatedAt)
	if err != nil {
		return 0, err
	}
	search.Status = entity.SearchStatusRunning
	return search.ID, nil
}

func (r *SearchRepoImpl) UpdateStatus(ctx context.Context, id int64, status string, totalAds int) error {
	query := `
		UPDATE searches
		SET status = $2,
		    total_ads = CASE WHEN $3 < 0 THEN total_ads ELSE $3 END
		WHERE id = $1;
	`
	_, err := r.db.Exec(ctx, query, id, status, totalAds)
	return err
}

func (r *SearchRepoImpl) List(ctx context.Context) ([]*entity.Search, error) {
	query := `
		SELECT id, industry, location, keywords, status, total_ads, created_at
		FROM searches
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := []*entity.Search{}
	for rows.Next() {
		var s entity.Search
		if err := rows.Scan(&s.ID, &s.Industry, &s.Location, &s.Keywords, &s.Status, &s.TotalAds, &s.CreatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, &s)
	}
	return searches, rows.Err()
}
