package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/lotverify/docscan/internal/capture"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/storage"
	"github.com/lotverify/docscan/internal/workflow"
)

// scanResponse reports one workflow pass back to the operator.
type scanResponse struct {
	SessionID     string                `json:"session_id"`
	State         workflow.State        `json:"state"`
	Result        any                   `json:"result,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

// HandleScan accepts an uploaded document image, activates it as the
// workflow's candidate, and submits it for recognition.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	// Limit file size to 10MB inclusive; the extra byte detects overflow.
	const maxUploadBytes = 10 * 1024 * 1024
	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) > maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	img, err := capture.LoadBytes(fileData, filepath.Ext(header.Filename))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.machine.ActivateImage(img)
	h.machine.Submit(r.Context())

	session := &storage.ScanSession{
		ID:        storage.NewSessionID(),
		State:     h.machine.State(),
		Image:     h.machine.Image(),
		Result:    h.machine.Result(),
		Error:     h.machine.LastError(),
		CreatedAt: time.Now(),
	}
	h.sessionStore.Set(session.ID, session)

	resp := scanResponse{
		SessionID:     session.ID,
		State:         session.State,
		Error:         session.Error,
		Notifications: h.recorder.Drain(),
	}
	if session.Result != nil {
		resp.Result = session.Result
	}

	h.writeJSON(w, resp)
}
