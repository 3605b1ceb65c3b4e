package cmd

import (
	"fmt"

	"github.com/lotverify/docscan/internal/config"
	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/lots"
	"github.com/lotverify/docscan/internal/notify"
	"github.com/spf13/cobra"
)

func newLotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lots",
		Short: "List the available lots from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			client := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.Timeout)

			cache := lots.NewCache(client, notify.NewLogNotifier())
			cache.Refresh(cmd.Context())

			if reason := cache.Err(); reason != "" {
				return fmt.Errorf("failed to fetch available lots: %s", reason)
			}

			records := cache.Records()
			if len(records) == 0 {
				fmt.Println("No lots available.")
				return nil
			}

			fmt.Printf("%-12s %-20s %-20s %-16s %-12s %s\n",
				"CATEGORY", "TOP", "BOTTOM", "DOCUMENT", "ISSUED", "VERIFIED")
			for _, lot := range records {
				verified := "no"
				if lot.IsVerified {
					verified = "yes"
				}
				fmt.Printf("%-12s %-20s %-20s %-16s %-12s %s\n",
					lot.Category, lot.TopText, lot.BottomText,
					lot.DocumentNumber, lot.IssuedDate, verified)
			}

			return nil
		},
	}

	return cmd
}
