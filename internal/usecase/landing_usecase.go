package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

// LandingPages scrapes and serves landing-page summaries.
type LandingPages interface {
	// Scrape returns the summary for a URL, reusing a stored one unless
	// refresh is set.
	Scrape(ctx context.Context, url string, refresh bool) (*entity.LandingPage, error)
}

type landingUseCase struct {
	repo    repository.LandingPageRepository
	scraper repository.LandingScraper
	store   repository.ScreenshotStore
}

// NewLandingUseCase creates a new instance of the landing page use case.
func NewLandingUseCase(repo repository.LandingPageRepository, scraper repository.LandingScraper, store repository.ScreenshotStore) LandingPages {
	return &landingUseCase{repo: repo, scraper: scraper, store: store}
}

func (uc *landingUseCase) Scrape(ctx context.Context, url string, refresh bool) (*entity.LandingPage, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("landing URL must be absolute")
	}

	if !refresh {
		page, err := uc.repo.FindByURL(ctx, url)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	page, png, err := uc.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scrape landing page: %w", err)
	}

	name := "landing-" + uuid.New().String() + ".png"
	if err := uc.store.Save(ctx, name, png); err != nil {
		return nil, fmt.Errorf("save landing screenshot: %w", err)
	}
	page.ScreenshotPath = "/screenshots/" + name

	id, err := uc.repo.Upsert(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("store landing page: %w", err)
	}
	page.ID = id
	return page, nil
}
