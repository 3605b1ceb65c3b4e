package workflow

// State is the explicit document-workflow state. The original operator UI
// carried this implicitly in scattered flags; making it a tagged value keeps
// illegal combinations unrepresentable.
type State string

const (
	// StateEmpty means no active image.
	StateEmpty State = "empty"
	// StateCaptured means an image is active but not yet submitted.
	StateCaptured State = "captured"
	// StateSubmitting means recognition is in flight.
	StateSubmitting State = "submitting"
	// StateReviewed means a recognition result is present.
	StateReviewed State = "reviewed"
	// StateVerifying means verification is in flight. It is derived from the
	// verifying busy flag: verification never rewrites the stored document
	// state, which remains reviewed.
	StateVerifying State = "verifying"
	// StateError means the last operation failed; the image and any result
	// are retained so the operator can retry.
	StateError State = "error"
)
