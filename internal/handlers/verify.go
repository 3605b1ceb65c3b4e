package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/workflow"
)

type verifyResponse struct {
	State         workflow.State        `json:"state"`
	Verified      bool                  `json:"verified"`
	Notifications []notify.Notification `json:"notifications"`
}

// HandleVerify submits the active recognition result for verification. An
// optional session_id marks the stored session verified on success.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		SessionID string `json:"session_id"`
	}
	if r.Body != nil {
		// Body is optional; decode errors just mean no session to tag.
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	h.machine.Verify(r.Context())

	notifications := h.recorder.Drain()
	verified := verificationSucceeded(notifications)

	if verified && request.SessionID != "" {
		if session, exists := h.sessionStore.Get(request.SessionID); exists {
			session.Verified = true
			h.sessionStore.Set(request.SessionID, session)
		}
	}

	h.writeJSON(w, verifyResponse{
		State:         h.machine.State(),
		Verified:      verified,
		Notifications: notifications,
	})
}

// verificationSucceeded reads the outcome from the notification stream: the
// workflow reports verification only transiently, never as document state.
func verificationSucceeded(notifications []notify.Notification) bool {
	for _, n := range notifications {
		if n.Severity == notify.SeveritySuccess {
			return true
		}
	}
	return false
}
