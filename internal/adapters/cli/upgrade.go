package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/application/claiming"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// NewUpgradeCommand creates the upgrade command
func NewUpgradeCommand() *cobra.Command {
	var (
		planetID     string
		resourceType string
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Buy a production upgrade for a claimed planet",
		Long: `Buy one production upgrade level. Upgrades cost a flat amount of the
upgraded resource: food 100, gold 150, metal 200.

Examples:
  dockernauts upgrade --planet 6f1c03a4-8e86-4f0e-9c1e-2d51d4f7a9b0 --resource gold`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(planetID, resourceType)
		},
	}

	cmd.Flags().StringVar(&planetID, "planet", "", "Planet ID (required)")
	cmd.Flags().StringVar(&resourceType, "resource", "", "Resource type: food, gold or metal (required)")
	cmd.MarkFlagRequired("planet")
	cmd.MarkFlagRequired("resource")

	return cmd
}

func runUpgrade(planetID, resourceType string) error {
	t, err := resource.ParseType(resourceType)
	if err != nil {
		return err
	}

	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	svc := claiming.NewUpgradeService(b, cliRequestTimeout, nil, cliLogger())
	if err := svc.Purchase(context.Background(), planetID, t); err != nil {
		return err
	}

	fmt.Printf("Upgrade purchased: %s production on planet %s (+0.5x speed)\n", t, planetID)
	return nil
}
