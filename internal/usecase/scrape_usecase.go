package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/user/ad-intel-service/internal/detect"
	"github.com/user/ad-intel-service/internal/entity"
	"github.com/user/ad-intel-service/internal/events"
	"github.com/user/ad-intel-service/internal/repository"
	"github.com/user/ad-intel-service/pkg/metrics"
	"github.com/user/ad-intel-service/pkg/utils"
)

const (
	platformMeta = "meta"

	totalSteps = 5

	// Scroll budget: roughly one scroll per three requested ads plus
	// headroom, hard-capped so a sparse results page cannot spin forever.
	scrollsPerTarget = 3
	scrollHeadroom   = 5
	maxScrollCap     = 40
	scrollStep       = 1000

	// The raw marker count is inflated by nested elements repeating the
	// marker text; dividing by three tracks the real card count closely
	// enough to pace the scroll loop.
	markerInflation = 3

	// Scrolling stops early once the estimated loaded count comfortably
	// exceeds the target, or after this many scrolls with no growth. The
	// loop guard is looser than the early stop so a progress event is
	// still published for the scroll that crossed the threshold.
	loadedEnough    = 1.2
	loadedOvershoot = 1.5
	maxStagnant     = 5

	// Capture clip caps keep a mis-measured container from producing a
	// page-sized screenshot.
	maxClipWidth  = 700.0
	maxClipHeight = 800.0

	fallbackClipWidth  = 600.0
	fallbackClipHeight = 700.0

	// scrollLead is how far above a card the page is positioned before
	// capture, leaving room for its header row.
	scrollLead = 100.0

	preCaptureDelay = 600 * time.Millisecond
	postScrollTop   = 1500 * time.Millisecond
	navSettleMin    = 3000 * time.Millisecond
	navSettleMax    = 5000 * time.Millisecond
	idleSettleMin   = 2000 * time.Millisecond
	idleSettleMax   = 3000 * time.Millisecond
)

// ScrapeConfig carries the tunable pacing and timeout knobs.
type ScrapeConfig struct {
	NetworkIdleTimeout time.Duration
	ScrollDelayMin     time.Duration
	ScrollDelayMax     time.Duration
	CaptureDelayMin    time.Duration
	CaptureDelayMax    time.Duration
}

// Scraper runs one end-to-end scrape session against the ad library.
type Scraper interface {
	Run(ctx context.Context, searchID int64, params entity.SearchParams) error
}

type scrapeUseCase struct {
	pages      repository.PageFactory
	adRepo     repository.AdRepository
	searchRepo repository.SearchRepository
	checker    repository.RelevanceChecker
	store      repository.ScreenshotStore
	bus        *events.Bus
	cfg        ScrapeConfig

	// sleep is swappable so tests run without real delays.
	sleep func(time.Duration)
}

// NewScrapeUseCase creates a new instance of the scrape use case.
func NewScrapeUseCase(
	pages repository.PageFactory,
	adRepo repository.AdRepository,
	searchRepo repository.SearchRepository,
	checker repository.RelevanceChecker,
	store repository.ScreenshotStore,
	bus *events.Bus,
	cfg ScrapeConfig,
) Scraper {
	return &scrapeUseCase{
		pages:      pages,
		adRepo:     adRepo,
		searchRepo: searchRepo,
		checker:    checker,
		store:      store,
		bus:        bus,
		cfg:        cfg,
		sleep:      time.Sleep,
	}
}

// libraryURL builds the ad library search URL for a location and query.
func libraryURL(location, query string) string {
	return fmt.Sprintf(
		"https://www.facebook.com/ads/library/?active_status=active&ad_type=all&country=%s&q=%s&search_type=keyword_unordered&media_type=all",
		detect.CountryCode(location),
		url.QueryEscape(query),
	)
}

func (uc *scrapeUseCase) Run(ctx context.Context, searchID int64, params entity.SearchParams) error {
	start := time.Now()

	query := params.Keywords
	if query == "" {
		query = params.Industry
	}
	target := params.AdCount
	if target <= 0 {
		target = 10
	}

	uc.status(searchID, 1, "Launching browser")

	session, err := uc.pages.NewSession(ctx)
	if err != nil {
		return uc.fail(ctx, searchID, nil, fmt.Errorf("launch browser: %w", err))
	}
	defer session.Close()

	uc.status(searchID, 2, "Navigating to the ad library")

	if err := session.Navigate(ctx, libraryURL(params.Location, query)); err != nil {
		return uc.fail(ctx, searchID, session, err)
	}
	uc.sleepBetween(navSettleMin, navSettleMax)

	if err := session.WaitNetworkIdle(ctx, uc.cfg.NetworkIdleTimeout); err != nil {
		if !errors.Is(err, repository.ErrNetworkIdleTimeout) {
			return uc.fail(ctx, searchID, session, err)
		}
		// The library keeps long-polling connections open; proceed with
		// whatever has rendered.
		slog.Warn("Network idle wait expired, continuing", "search_id", searchID)
	}
	uc.sleepBetween(idleSettleMin, idleSettleMax)

	uc.status(searchID, 3, fmt.Sprintf("Scanning for %s ads", params.Industry))

	uc.scrollUntilLoaded(ctx, session, searchID, target)

	if err := session.ScrollTo(ctx, 0); err != nil {
		return uc.fail(ctx, searchID, session, err)
	}
	uc.sleep(postScrollTop)

	candidates, err := session.CollectCandidates(ctx)
	if err != nil {
		return uc.fail(ctx, searchID, session, err)
	}
	cards := detect.Dedupe(detect.Cards(candidates))
	metrics.CardsDetected.Observe(float64(len(cards)))
	slog.Info("Detection finished", "search_id", searchID, "candidates", len(candidates), "cards", len(cards))

	if len(cards) == 0 {
		return uc.completeEmpty(ctx, searchID, session, start)
	}

	if len(cards) > target {
		cards = cards[:target]
	}
	if len(cards) < target {
		uc.bus.Publish(searchID, entity.ProgressEvent{
			Type:    entity.ProgressWarning,
			Message: fmt.Sprintf("Found only %d of %d requested ads", len(cards), target),
		})
	}

	uc.status(searchID, 4, fmt.Sprintf("Capturing %d ads", len(cards)))

	captured, skipped := uc.captureCards(ctx, session, searchID, cards, params, query)

	if err := uc.searchRepo.UpdateStatus(ctx, searchID, entity.SearchStatusCompleted, captured); err != nil {
		slog.Error("Failed to mark search completed", "search_id", searchID, "error", err)
	}
	metrics.ScrapesTotal.WithLabelValues(entity.SearchStatusCompleted).Inc()
	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())

	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:          entity.ProgressComplete,
		Message:       fmt.Sprintf("Captured %d ads", captured),
		Step:          totalSteps,
		TotalSteps:    totalSteps,
		TotalAds:      captured,
		CapturedCount: captured,
		SkippedCount:  skipped,
		Progress:      100,
	})
	slog.Info("Scrape completed", "search_id", searchID, "captured", captured, "skipped", skipped, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// scrollUntilLoaded advances the page until enough cards are estimated
// loaded, the scroll budget runs out, or growth stalls.
func (uc *scrapeUseCase) scrollUntilLoaded(ctx context.Context, session repository.PageSession, searchID int64, target int) {
	maxScrolls := (target+scrollsPerTarget-1)/scrollsPerTarget + scrollHeadroom
	if maxScrolls > maxScrollCap {
		maxScrolls = maxScrollCap
	}

	loaded := 0
	stagnant := 0
	for scroll := 0; scroll < maxScrolls && float64(loaded) < float64(target)*loadedOvershoot; scroll++ {
		if err := session.ScrollBy(ctx, scrollStep); err != nil {
			slog.Warn("Scroll failed", "search_id", searchID, "error", err)
			return
		}
		uc.sleepBetween(uc.cfg.ScrollDelayMin, uc.cfg.ScrollDelayMax)

		raw, err := session.MarkerCount(ctx)
		if err != nil {
			slog.Warn("Marker count failed", "search_id", searchID, "error", err)
			return
		}
		estimate := raw / markerInflation
		if estimate <= loaded {
			stagnant++
			if stagnant >= maxStagnant {
				slog.Info("Scroll growth stalled", "search_id", searchID, "loaded", loaded)
				return
			}
		} else {
			stagnant = 0
			loaded = estimate
		}

		progress := float64(loaded) / float64(target) * 100
		if progress > 95 {
			progress = 95
		}
		uc.bus.Publish(searchID, entity.ProgressEvent{
			Type:     entity.ProgressScroll,
			Message:  fmt.Sprintf("Loading ads... found about %d", loaded),
			Progress: progress,
		})

		if float64(loaded) >= float64(target)*loadedEnough {
			slog.Info("Enough ads loaded", "search_id", searchID, "loaded", loaded, "target", target)
			return
		}
	}
}

// captureCards screenshots and persists each detected card, skipping
// irrelevant ones and riding over per-card failures. The skipped count
// covers relevance rejections only; capture and persistence failures
// surface as warning events instead.
func (uc *scrapeUseCase) captureCards(
	ctx context.Context,
	session repository.PageSession,
	searchID int64,
	cards []entity.DetectedCard,
	params entity.SearchParams,
	query string,
) (captured, skipped int) {
	for i, card := range cards {
		uc.bus.Publish(searchID, entity.ProgressEvent{
			Type:     entity.ProgressCapturing,
			Message:  fmt.Sprintf("Capturing ad %d of %d", i+1, len(cards)),
			Progress: float64(i) / float64(len(cards)) * 100,
		})

		if params.FilterRelevant {
			keep, why := uc.relevanceGate(ctx, searchID, card, query)
			if !keep {
				skipped++
				uc.bus.Publish(searchID, entity.ProgressEvent{
					Type:         entity.ProgressSkipped,
					Message:      fmt.Sprintf("Skipped ad from %s: %s", card.AdvertiserName, why),
					SkippedCount: skipped,
				})
				continue
			}
		}

		png, err := uc.captureCard(ctx, session, card)
		if err != nil {
			metrics.ScreenshotFailures.Inc()
			slog.Warn("Card capture failed", "search_id", searchID, "index", i, "error", err)
			uc.bus.Publish(searchID, entity.ProgressEvent{
				Type:    entity.ProgressWarning,
				Message: fmt.Sprintf("Failed to capture ad %d of %d", i+1, len(cards)),
			})
			continue
		}

		name := uuid.New().String() + ".png"
		if err := uc.store.Save(ctx, name, png); err != nil {
			slog.Warn("Screenshot save failed", "search_id", searchID, "error", err)
			uc.bus.Publish(searchID, entity.ProgressEvent{
				Type:    entity.ProgressWarning,
				Message: fmt.Sprintf("Failed to save screenshot for ad %d of %d", i+1, len(cards)),
			})
			continue
		}

		ad := &entity.CapturedAd{
			SearchID:       searchID,
			Platform:       platformMeta,
			AdvertiserName: utils.CleanAdvertiserName(card.AdvertiserName),
			AdCopy:         card.AdCopy,
			ScreenshotPath: "/screenshots/" + name,
			StartDate:      card.StartDate,
			MediaType:      card.MediaType,
			CTAText:        card.CTAText,
			LandingURL:     card.LandingURL,
		}
		id, err := uc.adRepo.Insert(ctx, ad)
		if err != nil {
			slog.Error("Ad insert failed", "search_id", searchID, "advertiser", ad.AdvertiserName, "error", err)
			uc.bus.Publish(searchID, entity.ProgressEvent{
				Type:    entity.ProgressWarning,
				Message: fmt.Sprintf("Failed to store ad %d of %d", i+1, len(cards)),
			})
			continue
		}
		ad.ID = id

		captured++
		metrics.AdsCapturedTotal.Inc()
		uc.bus.Publish(searchID, entity.ProgressEvent{
			Type:          entity.ProgressAdCaptured,
			Message:       fmt.Sprintf("Captured ad from %s", ad.AdvertiserName),
			Progress:      float64(i+1) / float64(len(cards)) * 100,
			CapturedCount: captured,
			Ad:            ad,
		})

		uc.sleepBetween(uc.cfg.CaptureDelayMin, uc.cfg.CaptureDelayMax)
	}
	return captured, skipped
}

// relevanceGate decides whether a card survives keyword filtering. A
// failed check keeps the card: losing real ads to a classifier outage
// is worse than including a stray one.
func (uc *scrapeUseCase) relevanceGate(ctx context.Context, searchID int64, card entity.DetectedCard, query string) (keep bool, why string) {
	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:    entity.ProgressChecking,
		Message: fmt.Sprintf("Checking relevance of ad from %s", card.AdvertiserName),
	})

	verdict := uc.checker.Check(ctx, card.AdCopy, card.AdvertiserName, query)
	switch verdict.State {
	case entity.VerdictNotRelevant:
		return false, verdict.Reason
	case entity.VerdictCheckFailed:
		slog.Warn("Relevance check failed, keeping ad", "search_id", searchID, "advertiser", card.AdvertiserName, "reason", verdict.Reason)
		return true, ""
	default:
		return true, ""
	}
}

// captureCard scrolls a card into position and screenshots it, using
// the re-measured tight bounds when available and a centered fallback
// clip otherwise.
func (uc *scrapeUseCase) captureCard(ctx context.Context, session repository.PageSession, card entity.DetectedCard) ([]byte, error) {
	if err := session.ScrollTo(ctx, card.Position.Top-scrollLead); err != nil {
		return nil, err
	}
	uc.sleep(preCaptureDelay)

	clip := fallbackClip(card.Position)
	if tight, ok, err := session.TightCardBounds(ctx, card.Position.Top); err != nil {
		return nil, err
	} else if ok {
		clip = tight
	}

	if clip.Width > maxClipWidth {
		clip.Width = maxClipWidth
	}
	if clip.Height > maxClipHeight {
		clip.Height = maxClipHeight
	}
	return session.CaptureClip(ctx, clip)
}

// fallbackClip centers a fixed-width clip on the detected container
// when the tight re-measure finds nothing.
func fallbackClip(pos entity.CardPosition) detect.Rect {
	height := pos.Height
	if height > fallbackClipHeight {
		height = fallbackClipHeight
	}
	left := pos.Left + pos.Width/2 - fallbackClipWidth/2
	if left < 0 {
		left = 0
	}
	return detect.Rect{
		Top:    pos.Top,
		Left:   left,
		Width:  fallbackClipWidth,
		Height: height,
	}
}

// completeEmpty handles the zero-cards outcome: not an error, but worth
// a debug screenshot since it usually means the page layout shifted.
func (uc *scrapeUseCase) completeEmpty(ctx context.Context, searchID int64, session repository.PageSession, start time.Time) error {
	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:    entity.ProgressWarning,
		Message: "No ads found for this search",
	})
	uc.saveDebugScreenshot(ctx, session, fmt.Sprintf("debug-%d.png", searchID))

	if err := uc.searchRepo.UpdateStatus(ctx, searchID, entity.SearchStatusCompleted, 0); err != nil {
		slog.Error("Failed to mark search completed", "search_id", searchID, "error", err)
	}
	metrics.ScrapesTotal.WithLabelValues(entity.SearchStatusCompleted).Inc()
	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())

	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:       entity.ProgressComplete,
		Message:    "Captured 0 ads",
		Step:       totalSteps,
		TotalSteps: totalSteps,
		Progress:   100,
	})
	return nil
}

// fail is the fatal-error path: best-effort debug screenshot, terminal
// status, error event.
func (uc *scrapeUseCase) fail(ctx context.Context, searchID int64, session repository.PageSession, err error) error {
	slog.Error("Scrape failed", "search_id", searchID, "error", err)
	if session != nil {
		uc.saveDebugScreenshot(ctx, session, fmt.Sprintf("error-%d.png", searchID))
	}

	if uerr := uc.searchRepo.UpdateStatus(ctx, searchID, entity.SearchStatusError, -1); uerr != nil {
		slog.Error("Failed to mark search errored", "search_id", searchID, "error", uerr)
	}
	metrics.ScrapesTotal.WithLabelValues(entity.SearchStatusError).Inc()

	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:    entity.ProgressError,
		Message: err.Error(),
	})
	return err
}

func (uc *scrapeUseCase) saveDebugScreenshot(ctx context.Context, session repository.PageSession, name string) {
	png, err := session.CaptureFullPage(ctx)
	if err != nil {
		slog.Warn("Debug screenshot capture failed", "name", name, "error", err)
		return
	}
	if err := uc.store.Save(ctx, name, png); err != nil {
		slog.Warn("Debug screenshot save failed", "name", name, "error", err)
	}
}

func (uc *scrapeUseCase) status(searchID int64, step int, message string) {
	uc.bus.Publish(searchID, entity.ProgressEvent{
		Type:       entity.ProgressStatus,
		Message:    message,
		Step:       step,
		TotalSteps: totalSteps,
	})
}

// sleepBetween pauses for a uniformly random duration in [min, max].
func (uc *scrapeUseCase) sleepBetween(min, max time.Duration) {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min + 1)))
	}
	uc.sleep(d)
}
