package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/pkg/httpclient"
)

var healthURLFlag string

// printipid health — check a running server.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Ping a running server's health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		url := healthURLFlag
		if url == "" {
			url = "http://localhost:" + config.AppPort() + "/healthz"
		}

		resp, err := httpclient.Get(url).
			Timeout(5 * time.Second).
			Retry(3, 500*time.Millisecond).
			Send()
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		if !resp.OK() {
			return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
		}

		fmt.Println("OK —", url)
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVarP(&healthURLFlag, "url", "u", "", "Health endpoint URL (default http://localhost:$APP_PORT/healthz)")
	rootCmd.AddCommand(healthCmd)
}
