package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/ad-intel-service/internal/delivery/http/request"
	"github.com/user/ad-intel-service/internal/delivery/http/response"
	"github.com/user/ad-intel-service/internal/entity"
)

func (h *Handler) HandleStartSearch(w http.ResponseWriter, r *http.Request) {
	var req request.StartSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	search, err := h.searches.StartSearch(r.Context(), entity.SearchParams{
		Industry:       req.Industry,
		Location:       req.Location,
		Keywords:       req.Keywords,
		AdCount:        req.AdCount,
		FilterRelevant: req.FilterRelevant,
	})
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Search started", "search_id", search.ID, "industry", search.Industry, "keywords", search.Keywords)
	h.writeJSON(w, http.StatusAccepted, response.StartSearchResponse{
		Status:   "started",
		Message:  "Scrape session launched; follow progress on the event stream",
		SearchID: search.ID,
	})
}

func (h *Handler) HandleListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.searches.ListSearches(r.Context())
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, searches)
}

func (h *Handler) HandleListSearchAds(w http.ResponseWriter, r *http.Request) {
	searchID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	ads, err := h.searches.ListAdsBySearch(r.Context(), searchID)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ads)
}

func (h *Handler) HandleListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.searches.ListAds(r.Context(), r.URL.Query().Get("platform"), r.URL.Query().Get("advertiser"))
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ads)
}

func (h *Handler) HandleGetAd(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	ad, err := h.searches.GetAd(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ad)
}

func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	fav, err := h.searches.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FavoriteResponse{ID: id, IsFavorite: fav})
}

func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	ads, err := h.searches.ListFavorites(r.Context())
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ads)
}

func (h *Handler) HandleAdvertiserProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.writeJSONError(w, "Advertiser name required", http.StatusBadRequest)
		return
	}
	profile, err := h.searches.AdvertiserProfile(r.Context(), name)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}
