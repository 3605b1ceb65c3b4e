package handlers

import (
	"net/http"

	"github.com/lotverify/docscan/internal/gateway"
)

type lotsResponse struct {
	Lots  []gateway.LotRecord `json:"lots"`
	Error string              `json:"error,omitempty"`
}

// HandleLots refreshes the lot cache and returns the current catalog. A
// failed refresh reports an empty list with the failure reason — stale
// records are never returned alongside an error.
func (h *Handler) HandleLots(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.lotCache.Refresh(r.Context())
	h.recorder.Drain()

	h.writeJSON(w, lotsResponse{
		Lots:  h.lotCache.Records(),
		Error: h.lotCache.Err(),
	})
}
