package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/adapters/persistence"
	"github.com/dockernauts/dockernauts-go/internal/application/exploration"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/database"
)

// NewDiscoverCommand creates the discover command
func NewDiscoverCommand() *cobra.Command {
	var (
		x int
		y int
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Reveal the sector containing a world position",
		Long: `Reveal the sector containing the given coordinates. Sector contents
are deterministic: the same coordinates always reveal the same planet.

Examples:
  dockernauts discover --x 250 --y -130`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(x, y)
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "World X coordinate")
	cmd.Flags().IntVar(&y, "y", 0, "World Y coordinate")

	return cmd
}

func runDiscover(x, y int) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	svc := exploration.NewDiscoverService(persistence.NewGormPlanetRepository(db), cliLogger())
	p, err := svc.Discover(context.Background(), x, y)
	if err != nil {
		return err
	}

	if p == nil {
		fmt.Println("Empty space")
		return nil
	}

	fmt.Printf("%s\n", p)
	fmt.Printf("  id:         %s\n", p.ID())
	fmt.Printf("  claim cost: %d gold\n", p.ClaimCost())
	fmt.Printf("  resources:  %s\n", p.Available())
	return nil
}
