package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/user/ad-intel-service/internal/entity"
)

// HandleEventStream streams a search's progress events over SSE until
// the session reaches a terminal event or the client disconnects.
// Events emitted before the client connects are not replayed.
func (h *Handler) HandleEventStream(w http.ResponseWriter, r *http.Request) {
	searchID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeJSONError(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.bus.Subscribe(searchID)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("Failed to encode progress event", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

			if ev.Type == entity.ProgressComplete || ev.Type == entity.ProgressError {
				return
			}
		}
	}
}
