package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	waitURL      string
	waitTimeout  time.Duration
	waitInterval time.Duration
)

// waitreadyCmd waits until the API reports a healthy status
var waitreadyCmd = &cobra.Command{
	Use:   "waitready",
	Short: "Wait for /health/json to report ok (for deploy orchestration)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
		defer cancel()
		if err := waitReady(ctx, http.DefaultClient, waitURL, waitInterval); err != nil {
			return err
		}
		color.Green("%s is ready", waitURL)
		return nil
	},
}

// waitReady polls url until it answers 200 or ctx ends.
func waitReady(ctx context.Context, client *http.Client, url string, interval time.Duration) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			log.Debug().Int("status", resp.StatusCode).Msg("not ready")
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waitready timed out: %s", url)
		case <-time.After(interval):
		}
	}
}

func init() {
	waitreadyCmd.Flags().StringVar(&waitURL, "url", "http://127.0.0.1:8080/health/json", "readiness probe URL")
	waitreadyCmd.Flags().DurationVar(&waitTimeout, "timeout", 5*time.Minute, "how long to wait")
	waitreadyCmd.Flags().DurationVar(&waitInterval, "interval", 2*time.Second, "delay between probes")
	rootCmd.AddCommand(waitreadyCmd)
}
