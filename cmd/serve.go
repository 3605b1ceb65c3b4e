package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lotverify/docscan/internal/capture"
	"github.com/lotverify/docscan/internal/config"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/handlers"
	"github.com/lotverify/docscan/internal/lots"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/workflow"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the operator web API",
		Long: `Starts the docscan operator API on the specified port.

The API accepts document image uploads, submits them for recognition,
verifies reviewed results, and serves the available-lot catalog.`,
		Example: `  # Start server on default port 8888
  docscan serve

  # Start server on custom port
  docscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}

			client := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.Timeout)
			backend, err := buildBackend(cfg, client)
			if err != nil {
				return err
			}

			recorder := notify.NewRecorder()
			notifier := notify.Fanout{notify.NewLogNotifier(), recorder}

			opts := workflow.Options{ResetAfterVerify: cfg.ResetAfterVerify}
			if streams := cfg.CameraStreams(); len(streams) > 0 {
				opts.Camera = capture.NewCamera(capture.CameraConfig{
					Streams:     streams,
					IdealWidth:  cfg.CameraWidth,
					IdealHeight: cfg.CameraHeight,
					Timeout:     cfg.Timeout,
				})
			}

			machine := workflow.New(backend, notifier, opts)
			cache := lots.NewCache(client, notifier)
			handler := handlers.New(machine, cache, recorder)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/scan", handler.HandleScan)
			mux.HandleFunc("/api/verify", handler.HandleVerify)
			mux.HandleFunc("/api/lots", handler.HandleLots)
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Docscan operator API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from DOCSCAN_PORT or 8888)")

	return cmd
}
