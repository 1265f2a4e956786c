package handler

import (
	"encoding/json"
	"net/http"

	"github.com/user/ad-intel-service/internal/delivery/http/request"
)

func (h *Handler) HandleAnalyzeAd(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"
	result, err := h.analysis.AnalyzeAd(r.Context(), id, force)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleListInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	insights, err := h.analysis.ListInsights(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, insights)
}

func (h *Handler) HandleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	searchID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	results, err := h.analysis.AnalyzeAll(r.Context(), searchID)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *Handler) HandleAggregateInsights(w http.ResponseWriter, r *http.Request) {
	searchID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	summary, err := h.analysis.AggregateInsights(r.Context(), searchID)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, json.RawMessage(summary))
}

func (h *Handler) HandleScrapeLandingPage(w http.ResponseWriter, r *http.Request) {
	var req request.LandingPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		h.writeJSONError(w, "URL is required", http.StatusBadRequest)
		return
	}

	page, err := h.landing.Scrape(r.Context(), req.URL, req.Refresh)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}
