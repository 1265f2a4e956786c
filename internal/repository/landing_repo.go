package repository

import (
	"context"

	"github.com/user/ad-intel-service/internal/entity"
)

// LandingPageRepository stores scraped landing-page summaries, keyed by URL.
type LandingPageRepository interface {
	// Upsert inserts or replaces the record for the page's URL.
	Upsert(ctx context.Context, page *entity.LandingPage) (int64, error)
	// FindByURL retrieves a previously scraped page, or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.LandingPage, error)
}

// LandingScraper drives a browser against an ad's landing URL and
// extracts the above-the-fold summary plus a screenshot image.
type LandingScraper interface {
	Scrape(ctx context.Context, url string) (*entity.LandingPage, []byte, error)
}
