package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the game to its initial state",
		Long: `Broadcast a reset command. The master station purges the durable
streams, restores the initial resource grant and tears down every planet
worker except the home planet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset()
		},
	}
}

func runReset() error {
	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	data, err := protocol.Encode(protocol.NewReset())
	if err != nil {
		return err
	}

	if err := b.Broadcast(protocol.SubjectGameReset, data); err != nil {
		return err
	}

	fmt.Println("Reset broadcast sent")
	return nil
}
