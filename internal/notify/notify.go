package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Severity classifies an operator notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notifier receives operator-facing outcome messages. Implementations must
// not block: callers treat notification as fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// LogNotifier reports notifications through slog.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(message string, severity Severity, duration time.Duration) {
	switch severity {
	case SeverityDanger:
		slog.Error(message)
	case SeverityWarning:
		slog.Warn(message)
	default:
		slog.Info(message)
	}
}

// Fanout forwards each notification to every member notifier.
type Fanout []Notifier

func (f Fanout) Notify(message string, severity Severity, duration time.Duration) {
	for _, n := range f {
		n.Notify(message, severity, duration)
	}
}

// Notification is a recorded notification entry.
type Notification struct {
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"-"`
}

// Recorder retains notifications in order. It backs the serve API's outcome
// reporting and the test suite.
type Recorder struct {
	mu      sync.Mutex
	entries []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(message string, severity Severity, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Notification{Message: message, Severity: severity, Duration: duration})
}

// Drain returns all recorded notifications and resets the recorder.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries
	r.entries = nil
	return entries
}
