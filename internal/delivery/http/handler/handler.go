package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/ad-intel-service/internal/events"
	"github.com/user/ad-intel-service/internal/repository"
	"github.com/user/ad-intel-service/internal/usecase"
)

type Handler struct {
	searches usecase.SearchManager
	analysis usecase.Analysis
	landing  usecase.LandingPages
	bus      *events.Bus
}

func NewHandler(searches usecase.SearchManager, analysis usecase.Analysis, landing usecase.LandingPages, bus *events.Bus) *Handler {
	return &Handler{
		searches: searches,
		analysis: analysis,
		landing:  landing,
		bus:      bus,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses the given path segment as a numeric id, writing a 400
// on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		h.writeJSONError(w, "Invalid "+name+" in path", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeRepoError maps storage errors onto HTTP statuses.
func (h *Handler) writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.writeJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	slog.Error("Request failed", "error", err)
	h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
