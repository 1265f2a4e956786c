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

// LandingPageRepoImpl provides a concrete implementation for the LandingPageRepository interface using PostgreSQL.
type LandingPageRepoImpl struct {
	db *pgxpool.Pool
}

// NewLandingPageRepo creates a new instance of LandingPageRepoImpl.
func NewLandingPageRepo(db *pgxpool.Pool) *LandingPageRepoImpl {
	return &LandingPageRepoImpl{db: db}
}

func (r *LandingPageRepoImpl) Upsert(ctx context.Context, page *entity.LandingPage) (int64, error) {
	messagingJSON, err := json.Marshal(page.KeyMessaging)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO landing_pages (url, title, description, headline, primary_cta, key_messaging, screenshot_path, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			headline = EXCLUDED.headline,
			primary_cta = EXCLUDED.primary_cta,
			key_messaging = EXCLUDED.key_messaging,
			screenshot_path = EXCLUDED.screenshot_path,
			scraped_at = EXCLUDED.scraped_at
		RETURNING id;
	`
	var id int64
	err = r.db.QueryRow(ctx, query,
		page.URL,
		page.Title,
		page.Description,
		page.Headline,
		page.PrimaryCTA,
		messagingJSON,
		page.ScreenshotPath,
		page.ScrapedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *LandingPageRepoImpl) FindByURL(ctx context.Context, url string) (*entity.LandingPage, error) {
	query := `
		SELECT id, url, title, description, headline, primary_cta, key_messaging, screenshot_path, scraped_at
		FROM landing_pages
		WHERE url = $1;
	`
	var page entity.LandingPage
	var messagingJSON []byte
	err := r.db.QueryRow(ctx, query, url).Scan(
		&page.ID,
		&page.URL,
		&page.Title,
		&page.Description,
		&page.Headline,
		&page.PrimaryCTA,
		&messagingJSON,
		&page.ScreenshotPath,
		&page.ScrapedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(messagingJSON, &page.KeyMessaging); err != nil {
		return nil, err
	}
	return &page, nil
}
