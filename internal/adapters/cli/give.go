package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// NewGiveCommand creates the give command
func NewGiveCommand() *cobra.Command {
	var (
		gold  int
		food  int
		metal int
	)

	cmd := &cobra.Command{
		Use:   "give",
		Short: "Publish an administrative resource delta",
		Long: `Publish a signed resource delta straight to the station ledger.
Negative amounts deduct; balances clamp at zero.

Examples:
  dockernauts give --gold 500
  dockernauts give --food -50 --metal 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGive(resource.Amounts{Gold: gold, Food: food, Metal: metal})
		},
	}

	cmd.Flags().IntVar(&gold, "gold", 0, "Gold delta")
	cmd.Flags().IntVar(&food, "food", 0, "Food delta")
	cmd.Flags().IntVar(&metal, "metal", 0, "Metal delta")

	return cmd
}

func runGive(amounts resource.Amounts) error {
	if amounts.IsZero() {
		return fmt.Errorf("nothing to give: all amounts are zero")
	}

	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	ctx := context.Background()
	if err := b.EnsureStream(ctx, protocol.StreamMaster, protocol.StreamSubjects[protocol.StreamMaster]...); err != nil {
		return err
	}

	delta := protocol.NewDelta("", amounts)
	data, err := protocol.Encode(delta)
	if err != nil {
		return err
	}

	if err := b.PublishWithID(protocol.SubjectResources, delta.MessageID, data); err != nil {
		return err
	}

	fmt.Printf("Published delta: %s\n", amounts)
	return nil
}
