package cmd

import (
	"fmt"

	"github.com/lotverify/docscan/internal/capture"
	"github.com/lotverify/docscan/internal/config"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/lotverify/docscan/internal/workflow"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		provider string
		verify   bool
		facing   string
	)

	cmd := &cobra.Command{
		Use:   "scan [image file]",
		Short: "Capture or upload a document image and submit it for recognition",
		Long: `Runs one pass of the document workflow: acquire an image, submit it to
the recognition service, and print the extracted fields.

With an image file argument the file is uploaded; without one a frame is
captured from the configured camera (DOCSCAN_CAMERA_URL).`,
		Example: `  # Recognize an uploaded image and verify the result
  docscan scan photo.png --verify

  # Capture from the front-facing camera stream
  docscan scan --facing user

  # Recognize locally with a Gemini vision model
  docscan scan photo.png --provider gemini`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.Load()
			if provider != "" {
				cfg.Provider = provider
			}

			client := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.Timeout)
			backend, err := buildBackend(cfg, client)
			if err != nil {
				return err
			}

			notifier := notify.NewLogNotifier()
			opts := workflow.Options{ResetAfterVerify: cfg.ResetAfterVerify}

			var img capture.Image
			if len(args) == 1 {
				img, err = capture.LoadFile(args[0])
				if err != nil {
					return err
				}
			} else {
				camera := capture.NewCamera(capture.CameraConfig{
					Streams:     cfg.CameraStreams(),
					Facing:      capture.Facing(facing),
					IdealWidth:  cfg.CameraWidth,
					IdealHeight: cfg.CameraHeight,
					Timeout:     cfg.Timeout,
				})
				if err := camera.Start(ctx); err != nil {
					return err
				}
				defer camera.Stop()

				opts.Camera = camera
				img, err = camera.Capture(ctx)
				if err != nil {
					return err
				}
			}

			machine := workflow.New(backend, notifier, opts)
			machine.ActivateImage(img)
			machine.Submit(ctx)

			result := machine.Result()
			if result == nil {
				return fmt.Errorf("recognition failed: %s", machine.LastError())
			}

			fmt.Println()
			fmt.Println("=== Scan Result ===")
			fmt.Printf("ID:       %d\n", result.ID)
			fmt.Printf("Category: %s\n", result.Category)
			fmt.Printf("Top:      %s\n", result.FormattedTop)
			fmt.Printf("Bottom:   %s\n", result.FormattedBottom)
			fmt.Printf("Status:   %s\n", result.Status)
			if result.Message != "" {
				fmt.Printf("Message:  %s\n", result.Message)
			}

			if verify {
				machine.Verify(ctx)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Recognition provider: remote, gemini, or ollama (default from DOCSCAN_PROVIDER)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Submit the recognized result for verification")
	cmd.Flags().StringVar(&facing, "facing", string(capture.FacingEnvironment), "Camera facing mode: environment or user")

	return cmd
}
