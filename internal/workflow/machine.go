// Package workflow owns the authoritative state of the document currently
// being handled: which image is active, whether recognition succeeded, and
// whether verification is in flight. It sequences all calls into the backend
// gateway and reports every outcome through the notification collaborator.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lotverify/docscan/internal/capture"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/imaging"
	"github.com/lotverify/docscan/internal/notify"
)

// Backend is the slice of the gateway the workflow needs. Direct recognition
// providers satisfy the recognition half through recognize.Backend.
type Backend interface {
	SubmitForRecognition(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*gateway.ScanResult, string, error)
	SubmitVerification(ctx context.Context, resultID int, categoryName string) (string, error)
}

// CameraSource is the live-capture collaborator the workflow re-arms on
// retake. The workflow never touches the stream itself.
type CameraSource interface {
	Active() bool
	Start(ctx context.Context) error
}

// Options tune workflow policy.
type Options struct {
	// Camera, when set, is re-armed by Retake if it holds no stream.
	Camera CameraSource
	// ResetAfterVerify clears the reviewed result and re-arms the camera
	// after a successful verification. Off by default: the result stays
	// reviewed and may be verified again.
	ResetAfterVerify bool
}

const msgNoCredential = "Authentication token not found. Please log in."

// Machine is the document workflow state machine. All operations serialize
// through its mutex; overlapping triggers of the same operation are rejected
// by the busy-flag guards rather than queued — the remote service has no
// cancellation contract, so in-flight requests always run to completion.
type Machine struct {
	backend  Backend
	notifier notify.Notifier
	opts     Options

	mu         sync.Mutex
	state      State
	image      *capture.Image
	result     *gateway.ScanResult
	lastErr    string
	submitting bool
	verifying  bool
}

// New creates a workflow machine in the empty state.
func New(backend Backend, notifier notify.Notifier, opts Options) *Machine {
	return &Machine{
		backend:  backend,
		notifier: notifier,
		opts:     opts,
		state:    StateEmpty,
	}
}

// ActivateImage records img as the active candidate for submission. The last
// activation wins regardless of origin; any prior recognition result and
// error are cleared.
func (m *Machine) ActivateImage(img capture.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = &img
	m.result = nil
	m.lastErr = ""
	m.state = StateCaptured
}

// Submit sends the active image for recognition. With no active image it is
// a no-op beyond a warning notification. A second Submit while one is in
// flight is rejected outright. The submitting flag clears on every exit
// path, including precondition failures.
func (m *Machine) Submit(ctx context.Context) {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return
	}
	if m.image == nil {
		m.mu.Unlock()
		m.notifier.Notify("No image available for processing", notify.SeverityWarning, 3*time.Second)
		return
	}

	imageBytes, mimeType, err := imaging.DecodeDataURI(m.image.DataURL)
	if err != nil {
		m.mu.Unlock()
		m.notifier.Notify("Could not convert image data", notify.SeverityDanger, 3*time.Second)
		return
	}

	fileName := m.image.FileName
	m.result = nil
	m.lastErr = ""
	m.submitting = true
	m.state = StateSubmitting
	m.mu.Unlock()

	m.notifier.Notify("Processing image...", notify.SeverityInfo, 10*time.Second)

	result, message, err := m.backend.SubmitForRecognition(ctx, imageBytes, mimeType, fileName)

	m.mu.Lock()
	m.submitting = false
	if err != nil {
		reason, severity := submitFailure(err)
		m.result = nil
		m.lastErr = reason
		m.state = StateError
		m.mu.Unlock()
		m.notifier.Notify(reason, severity, 5*time.Second)
		return
	}

	m.result = result
	m.lastErr = ""
	m.state = StateReviewed
	m.mu.Unlock()

	m.notifier.Notify(message, notify.SeveritySuccess, 5*time.Second)
}

// Verify submits the active recognition result's identifier and category as
// a verification decision. The outcome is surfaced only as a transient
// notification — it never rewrites the document state. With no result it is
// a no-op beyond a warning.
func (m *Machine) Verify(ctx context.Context) {
	m.mu.Lock()
	if m.verifying {
		m.mu.Unlock()
		return
	}
	if m.result == nil {
		m.mu.Unlock()
		m.notifier.Notify("No OCR result available to verify.", notify.SeverityWarning, 3*time.Second)
		return
	}

	resultID := m.result.ID
	category := m.result.Category
	m.verifying = true
	m.mu.Unlock()

	m.notifier.Notify("Verifying result...", notify.SeverityInfo, 5*time.Second)

	message, err := m.backend.SubmitVerification(ctx, resultID, category)

	m.mu.Lock()
	m.verifying = false
	if err != nil {
		m.mu.Unlock()
		m.notifier.Notify("Verification Failed: "+errorReason(err), notify.SeverityDanger, 5*time.Second)
		return
	}
	reset := m.opts.ResetAfterVerify
	m.mu.Unlock()

	m.notifier.Notify(message, notify.SeveritySuccess, 5*time.Second)

	if reset {
		m.Retake(ctx)
	}
}

// Retake discards the active image, result, and error from any state and
// returns to empty. If the camera holds no stream it is re-armed so the
// operator can capture again.
func (m *Machine) Retake(ctx context.Context) {
	m.mu.Lock()
	m.image = nil
	m.result = nil
	m.lastErr = ""
	m.state = StateEmpty
	m.mu.Unlock()

	if m.opts.Camera != nil && !m.opts.Camera.Active() {
		if err := m.opts.Camera.Start(ctx); err != nil {
			m.notifier.Notify(err.Error(), notify.SeverityDanger, 5*time.Second)
		}
	}
}

// State returns the current workflow state. While a verification is in
// flight it reports StateVerifying over the stored state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.verifying {
		return StateVerifying
	}
	return m.state
}

// Image returns a copy of the active image, if any.
func (m *Machine) Image() *capture.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.image == nil {
		return nil
	}
	img := *m.image
	return &img
}

// Result returns a copy of the active recognition result, if any.
func (m *Machine) Result() *gateway.ScanResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return nil
	}
	result := *m.result
	return &result
}

// LastError returns the reason the last operation failed, or empty.
func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Submitting reports whether recognition is in flight.
func (m *Machine) Submitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// Verifying reports whether verification is in flight.
func (m *Machine) Verifying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifying
}

// submitFailure maps a recognition failure to its notification. A failure the
// server itself reported is a soft outcome (warning, server's own message);
// the danger severity and "Error: " prefix are reserved for transport
// failures. Missing credential is a precondition, reported bare.
func submitFailure(err error) (string, notify.Severity) {
	if errors.Is(err, gateway.ErrNoCredential) {
		return msgNoCredential, notify.SeverityDanger
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Cause == gateway.CauseApplication {
		return apiErr.Reason, notify.SeverityWarning
	}
	return "Error: " + err.Error(), notify.SeverityDanger
}

func errorReason(err error) string {
	if errors.Is(err, gateway.ErrNoCredential) {
		return msgNoCredential
	}
	return err.Error()
}
