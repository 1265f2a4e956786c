package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/repository"
)

const (
	defaultAdCount = 10
	maxAdCount     = 50

	// sessionTimeout bounds one background scrape end to end.
	sessionTimeout = 15 * time.Minute
)

// AdvertiserProfile aggregates everything captured from one advertiser.
type AdvertiserProfile struct {
	AdvertiserName string               `json:"advertiser_name"`
	TotalAds       int                  `json:"total_ads"`
	MediaBreakdown map[string]int       `json:"media_breakdown"`
	CTABreakdown   map[string]int       `json:"cta_breakdown"`
	LandingDomains []string             `json:"landing_domains"`
	AvgDaysRunning float64              `json:"avg_days_running"`
	Ads            []*entity.CapturedAd `json:"ads"`
}

// SearchManager starts scrape sessions and serves the captured results.
type SearchManager interface {
	StartSearch(ctx context.Context, params entity.SearchParams) (*entity.Search, error)
	ListSearches(ctx context.Context) ([]*entity.Search, error)
	ListAdsBySearch(ctx context.Context, searchID int64) ([]*entity.CapturedAd, error)
	ListAds(ctx context.Context, platform, advertiser string) ([]*entity.CapturedAd, error)
	GetAd(ctx context.Context, id int64) (*entity.CapturedAd, error)
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	ListFavorites(ctx context.Context) ([]*entity.CapturedAd, error)
	AdvertiserProfile(ctx context.Context, name string) (*AdvertiserProfile, error)
}

type searchManager struct {
	searchRepo repository.SearchRepository
	adRepo     repository.AdRepository
	scraper    Scraper
}

// NewSearchManager creates a new instance of the search manager.
func NewSearchManager(searchRepo repository.SearchRepository, adRepo repository.AdRepository, scraper Scraper) SearchManager {
	return &searchManager{
		searchRepo: searchRepo,
		adRepo:     adRepo,
		scraper:    scraper,
	}
}

// StartSearch validates the parameters, records the search and launches
// the scrape in the background. The returned search is in running state;
// callers follow progress over the event stream.
func (m *searchManager) StartSearch(ctx context.Context, params entity.SearchParams) (*entity.Search, error) {
	if params.Industry == "" && params.Keywords == "" {
		return nil, fmt.Errorf("industry or keywords required")
	}
	if params.AdCount <= 0 {
		params.AdCount = defaultAdCount
	}
	if params.AdCount > maxAdCount {
		params.AdCount = maxAdCount
	}

	search := &entity.Search{
		Industry: params.Industry,
		Location: params.Location,
		Keywords: params.Keywords,
	}
	if _, err := m.searchRepo.Create(ctx, search); err != nil {
		return nil, fmt.Errorf("create search: %w", err)
	}

	go func() {
		// Detached from the request context; the session outlives the
		// HTTP call that started it.
		runCtx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()
		if err := m.scraper.Run(runCtx, search.ID, params); err != nil {
			slog.Error("Background scrape ended with error", "search_id", search.ID, "error", err)
		}
	}()

	return search, nil
}

func (m *searchManager) ListSearches(ctx context.Context) ([]*entity.Search, error) {
	return m.searchRepo.List(ctx)
}

func (m *searchManager) ListAdsBySearch(ctx context.Context, searchID int64) ([]*entity.CapturedAd, error) {
	return m.adRepo.ListBySearch(ctx, searchID)
}

func (m *searchManager) ListAds(ctx context.Context, platform, advertiser string) ([]*entity.CapturedAd, error) {
	return m.adRepo.List(ctx, platform, advertiser)
}

func (m *searchManager) GetAd(ctx context.Context, id int64) (*entity.CapturedAd, error) {
	return m.adRepo.FindByID(ctx, id)
}

func (m *searchManager) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return m.adRepo.ToggleFavorite(ctx, id)
}

func (m *searchManager) ListFavorites(ctx context.Context) ([]*entity.CapturedAd, error) {
	return m.adRepo.ListFavorites(ctx)
}

// AdvertiserProfile builds the aggregate view of one advertiser from
// their captured ads.
func (m *searchManager) AdvertiserProfile(ctx context.Context, name string) (*AdvertiserProfile, error) {
	ads, err := m.adRepo.ListByAdvertiser(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, repository.ErrNotFound
	}

	profile := &AdvertiserProfile{
		AdvertiserName: ads[0].AdvertiserName,
		TotalAds:       len(ads),
		MediaBreakdown: make(map[string]int),
		CTABreakdown:   make(map[string]int),
		Ads:            ads,
	}

	domains := make(map[string]struct{})
	var totalDays float64
	var dated int
	now := time.Now()

	for _, ad := range ads {
		profile.MediaBreakdown[string(ad.MediaType)]++
		if ad.CTAText != "" {
			profile.CTABreakdown[ad.CTAText]++
		}
		if d := landingDomain(ad.LandingURL); d != "" {
			domains[d] = struct{}{}
		}
		if started, ok := parseStartDate(ad.StartDate); ok {
			days := now.Sub(started).Hours() / 24
			if days >= 0 {
				totalDays += days
				dated++
			}
		}
	}

	if dated > 0 {
		profile.AvgDaysRunning = totalDays / float64(dated)
	}
	for d := range domains {
		profile.LandingDomains = append(profile.LandingDomains, d)
	}
	sort.Strings(profile.LandingDomains)
	return profile, nil
}

// parseStartDate handles the two date renderings the ad library uses.
func parseStartDate(s string) (time.Time, bool) {
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func landingDomain(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
