package main

import (
	"os"

	"github.com/spf13/cobra"

	"tutorbill/internal/interfaces/cli/migrate"
	"tutorbill/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tutorbill",
		Short: "Tutorbill - subscription reconciliation service",
		Long:  `Tutorbill keeps tutoring organisations' subscription state in sync with the payment provider and answers premium access checks.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
