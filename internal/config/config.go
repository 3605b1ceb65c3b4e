// Package config assembles all runtime configuration once, from the
// environment, so collaborators receive explicit values instead of reading
// ambient storage at call sites.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/lotverify/docscan/internal/capture"
)

// Config carries every tunable the docscan commands need.
type Config struct {
	// APIBaseURL is the recognition/verification service base URL.
	APIBaseURL string
	// APIToken is the bearer credential, sent as-is with no scheme prefix.
	// Supplied by the auth collaborator; absence is a precondition failure.
	APIToken string
	// Timeout bounds every remote call.
	Timeout time.Duration

	// Camera frame-grabber endpoints per facing mode.
	CameraURL      string
	CameraFrontURL string
	CameraWidth    int
	CameraHeight   int

	// Provider selects the recognizer: remote, gemini, or ollama.
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OllamaURL    string
	OllamaModel  string

	// ResetAfterVerify clears the reviewed result after a successful
	// verification instead of leaving it open for re-verification.
	ResetAfterVerify bool

	// Port for the serve command.
	Port string
}

// Load reads configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		APIBaseURL:       getenv("DOCSCAN_API_URL", "http://localhost:4091"),
		APIToken:         os.Getenv("DOCSCAN_API_TOKEN"),
		Timeout:          getduration("DOCSCAN_TIMEOUT", 30*time.Second),
		CameraURL:        os.Getenv("DOCSCAN_CAMERA_URL"),
		CameraFrontURL:   os.Getenv("DOCSCAN_CAMERA_FRONT_URL"),
		CameraWidth:      getint("DOCSCAN_CAMERA_WIDTH", 1920),
		CameraHeight:     getint("DOCSCAN_CAMERA_HEIGHT", 1080),
		Provider:         getenv("DOCSCAN_PROVIDER", "remote"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaURL:        getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:      getenv("OLLAMA_MODEL", "mistral-small3.2:24b"),
		ResetAfterVerify: getbool("DOCSCAN_RESET_AFTER_VERIFY", false),
		Port:             getenv("DOCSCAN_PORT", "8888"),
	}
}

// CameraStreams maps facing modes to configured snapshot endpoints.
func (c *Config) CameraStreams() map[capture.Facing]string {
	streams := make(map[capture.Facing]string)
	if c.CameraURL != "" {
		streams[capture.FacingEnvironment] = c.CameraURL
	}
	if c.CameraFrontURL != "" {
		streams[capture.FacingUser] = c.CameraFrontURL
	}
	return streams
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
