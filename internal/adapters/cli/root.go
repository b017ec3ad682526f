package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	natsURL string
	verbose bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dockernauts",
		Short: "Dockernauts CLI - Operate the game economy over the message bus",
		Long: `Dockernauts CLI talks to the running game over NATS JetStream.

Examples:
  dockernauts state
  dockernauts give --gold 500 --food 100
  dockernauts discover --x 250 --y -130
  dockernauts claim --planet 6f1c03a4-8e86-4f0e-9c1e-2d51d4f7a9b0
  dockernauts upgrade --planet 6f1c03a4-8e86-4f0e-9c1e-2d51d4f7a9b0 --resource gold
  dockernauts pub MASTER.resources '{"gold": 10}'
  dockernauts reset`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&natsURL, "nats-url", getDefaultNatsURL(),
		"NATS server URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewStateCommand())
	rootCmd.AddCommand(NewGiveCommand())
	rootCmd.AddCommand(NewPubCommand())
	rootCmd.AddCommand(NewResetCommand())
	rootCmd.AddCommand(NewDiscoverCommand())
	rootCmd.AddCommand(NewClaimCommand())
	rootCmd.AddCommand(NewUpgradeCommand())

	return rootCmd
}

// getDefaultNatsURL returns the default NATS server URL
func getDefaultNatsURL() string {
	if url := os.Getenv("DOCKERNAUTS_NATS_URL"); url != "" {
		return url
	}
	return "nats://localhost:4222"
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
