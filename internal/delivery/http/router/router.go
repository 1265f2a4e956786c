package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/ad-intel-service/internal/delivery/http/handler"
	"github.com/user/ad-intel-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler, screenshotsDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)

	mux.HandleFunc("POST /api/search", h.HandleStartSearch)
	mux.HandleFunc("GET /api/searches", h.HandleListSearches)
	mux.HandleFunc("GET /api/searches/{id}/ads", h.HandleListSearchAds)
	mux.HandleFunc("GET /api/events/{id}", h.HandleEventStream)

	mux.HandleFunc("GET /api/ads", h.HandleListAds)
	mux.HandleFunc("GET /api/ads/{id}", h.HandleGetAd)
	mux.HandleFunc("POST /api/ads/{id}/favorite", h.HandleToggleFavorite)
	mux.HandleFunc("GET /api/favorites", h.HandleListFavorites)
	mux.HandleFunc("GET /api/advertiser/{name}", h.HandleAdvertiserProfile)

	mux.HandleFunc("POST /api/ads/{id}/analyze", h.HandleAnalyzeAd)
	mux.HandleFunc("GET /api/ads/{id}/insights", h.HandleListInsights)
	mux.HandleFunc("POST /api/searches/{id}/analyze-all", h.HandleAnalyzeAll)
	mux.HandleFunc("POST /api/searches/{id}/aggregate-insights", h.HandleAggregateInsights)

	mux.HandleFunc("POST /api/landing-page", h.HandleScrapeLandingPage)

	// Captured screenshots are served directly; ad records reference
	// them by /screenshots/ path.
	mux.Handle("GET /screenshots/", http.StripPrefix("/screenshots/", http.FileServer(http.Dir(screenshotsDir))))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
