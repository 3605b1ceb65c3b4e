package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lotverify/docscan/internal/config"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/recognize"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscan",
		Short: "Document capture and lot verification tool",
		Long: `Docscan captures or uploads document images, submits them to a remote
recognition service, and verifies the extracted fields against the catalog of
known lots.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newLotsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}

// buildBackend assembles the workflow backend for the configured provider.
// Direct providers recognize locally but still verify through the remote
// service.
func buildBackend(cfg *config.Config, client *gateway.Client) (recognize.Backend, error) {
	recognizer, err := buildRecognizer(cfg, client)
	if err != nil {
		return recognize.Backend{}, err
	}
	return recognize.Backend{Recognizer: recognizer, Verifier: client}, nil
}

func buildRecognizer(cfg *config.Config, client *gateway.Client) (recognize.Recognizer, error) {
	switch cfg.Provider {
	case "remote":
		return recognize.Remote{Client: client}, nil
	case "gemini":
		return recognize.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "ollama":
		return recognize.NewOllama(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported recognition provider: %s", cfg.Provider)
	}
}
