package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

// AdRepoImpl provides a concrete implementation for the AdRepository interface using PostgreSQL.
type AdRepoImpl struct {
	db *pgxpool.Pool
}

// NewAdRepo creates a new instance of AdRepoImpl.
func NewAdRepo(db *pgxpool.Pool) *AdRepoImpl {
	return &AdRepoImpl{db: db}
}

const adColumns = `id, search_id, platform, advertiser_name, ad_copy, screenshot_path, start_date, media_type, cta_text, landing_url, is_favorite, created_at`

func (r *AdRepoImpl) Insert(ctx context.Context, ad *entity.CapturedAd) (int64, error) {
	query := `
		INSERT INTO ads (search_id, platform, advertiser_name, ad_copy, screenshot_path, start_date, media_type, cta_text, landing_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		ad.SearchID,
		ad.Platform,
		ad.AdvertiserName,
		ad.AdCopy,
		ad.ScreenshotPath,
		ad.StartDate,
		ad.MediaType,
		ad.CTAText,
		ad.LandingURL,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AdRepoImpl) FindByID(ctx context.Context, id int64) (*entity.CapturedAd, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE id = $1;`
	ad, err := scanAd(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return ad, err
}

func (r *AdRepoImpl) ListBySearch(ctx context.Context, searchID int64) ([]*entity.CapturedAd, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE search_id = $1 ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.Query(ctx, query, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

func (r *AdRepoImpl) List(ctx context.Context, platform, advertiser string) ([]*entity.CapturedAd, error) {
	query := `
		SELECT ` + adColumns + `
		FROM ads
		WHERE ($1 = '' OR platform = $1)
		  AND ($2 = '' OR advertiser_name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query, platform, advertiser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

func (r *AdRepoImpl) ListByAdvertiser(ctx context.Context, name string) ([]*entity.CapturedAd, error) {
	query := `
		SELECT ` + adColumns + `
		FROM ads
		WHERE LOWER(advertiser_name) = LOWER($1)
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

func (r *AdRepoImpl) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE ads SET is_favorite = NOT is_favorite WHERE id = $1 RETURNING is_favorite;`
	var fav bool
	err := r.db.QueryRow(ctx, query, id).Scan(&fav)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, repository.ErrNotFound
	}
	return fav, err
}

func (r *AdRepoImpl) ListFavorites(ctx context.Context) ([]*entity.CapturedAd, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE is_favorite ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

func scanAd(row pgx.Row) (*entity.CapturedAd, error) {
	var ad entity.CapturedAd
	err := row.Scan(
		&ad.ID,
		&ad.SearchID,
		&ad.Platform,
		&ad.AdvertiserName,
		&ad.AdCopy,
		&ad.ScreenshotPath,
		&ad.StartDate,
		&ad.MediaType,
		&ad.CTAText,
		&ad.LandingURL,
		&ad.IsFavorite,
		&ad.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func scanAds(rows pgx.Rows) ([]*entity.CapturedAd, error) {
	ads := []*entity.CapturedAd{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}
