package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "subscription-service",
	Short: "Subscription plan registry and ledger service",
	Long:  "Manages subscription plans and per-address subscriptions gated by exact-amount payment validation and time-based expiry.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
