package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// NewStateCommand creates the state command
func NewStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current station resource balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState()
		},
	}
}

func runState() error {
	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	reply, err := b.Request(context.Background(), protocol.SubjectGameState, nil, cliRequestTimeout)
	if err != nil {
		if errors.Is(err, bus.ErrTimeout) {
			return fmt.Errorf("no reply from master station (is it running?)")
		}
		return err
	}

	state, err := protocol.DecodeStateReply(reply)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tBALANCE")
	fmt.Fprintf(w, "gold\t%d\n", state.Resources.Gold)
	fmt.Fprintf(w, "food\t%d\n", state.Resources.Food)
	fmt.Fprintf(w, "metal\t%d\n", state.Resources.Metal)
	return w.Flush()
}
