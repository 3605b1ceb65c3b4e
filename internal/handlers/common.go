package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lotverify/docscan/internal/lots"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/storage"
	"github.com/lotverify/docscan/internal/workflow"
)

// Handler wires the operator web API to the shared workflow machine, lot
// cache, and session store. Notifications raised by the workflow are
// recorded and echoed back in each response.
type Handler struct {
	machine      *workflow.Machine
	lotCache     *lots.Cache
	sessionStore *storage.SessionStore
	recorder     *notify.Recorder
}

func New(machine *workflow.Machine, lotCache *lots.Cache, recorder *notify.Recorder) *Handler {
	return &Handler{
		machine:      machine,
		lotCache:     lotCache,
		sessionStore: storage.New(),
		recorder:     recorder,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*storage.ScanSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
