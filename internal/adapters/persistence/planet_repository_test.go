package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockernauts/dockernauts-go/internal/adapters/persistence"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/test/helpers"
)

func newPlanetRepo(t *testing.T) *persistence.GormPlanetRepository {
	t.Helper()
	return persistence.NewGormPlanetRepository(helpers.NewTestDB(t))
}

func TestGormPlanetRepository_SaveAndFindByID(t *testing.T) {
	// Arrange
	repo := newPlanetRepo(t)
	ctx := context.Background()
	p := planet.New(planet.NewID(), "Sirius Major", 150, -30, planet.SizeMedium,
		resource.Amounts{Gold: 1200, Food: 1100, Metal: 1000})
	p.Discover()

	// Act
	require.NoError(t, repo.Save(ctx, p))
	found, err := repo.FindByID(ctx, p.ID())

	// Assert: full round trip of the aggregate state
	require.NoError(t, err)
	assert.Equal(t, p.ID(), found.ID())
	assert.Equal(t, "Sirius Major", found.Name())
	assert.Equal(t, 150, found.X())
	assert.Equal(t, -30, found.Y())
	assert.Equal(t, planet.SizeMedium, found.Size())
	assert.Equal(t, resource.Amounts{Gold: 1200, Food: 1100, Metal: 1000}, found.Available())
	assert.Equal(t, resource.Amounts{Gold: 1, Food: 1, Metal: 1}, found.CollectionSpeed())
	assert.False(t, found.Claimed())
	assert.True(t, found.Discovered())
}

func TestGormPlanetRepository_SaveUpdatesExisting(t *testing.T) {
	// Arrange
	repo := newPlanetRepo(t)
	ctx := context.Background()
	p := planet.New(planet.NewID(), "Deneb Drift", 10, 10, planet.SizeSmall,
		resource.Amounts{Gold: 500, Food: 500, Metal: 500})
	require.NoError(t, repo.Save(ctx, p))

	// Act: mutate and save again under the same ID
	require.NoError(t, p.Claim(p.ClaimCost()))
	require.NoError(t, p.ApplyUpgrade(resource.Gold))
	require.NoError(t, repo.Save(ctx, p))

	// Assert
	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, found.Claimed())
	assert.Equal(t, 1, found.UpgradeLevels().Gold)

	claimed, err := repo.FindClaimed(ctx)
	require.NoError(t, err)
	assert.Len(t, claimed, 1)
}

func TestGormPlanetRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	repo := newPlanetRepo(t)

	// Act
	_, err := repo.FindByID(context.Background(), planet.NewID())

	// Assert
	var notFound *planet.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestGormPlanetRepository_MarkClaimed_SingleWinner(t *testing.T) {
	// Arrange: two claimers load independent copies of the same planet,
	// both of which look unclaimed and accept the payment locally
	repo := newPlanetRepo(t)
	ctx := context.Background()
	p := planet.New(planet.NewID(), "Vega Reach", 10, 10, planet.SizeSmall,
		resource.Amounts{Gold: 500, Food: 500, Metal: 500})
	require.NoError(t, repo.Save(ctx, p))

	copyA, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	copyB, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	require.NoError(t, copyA.Claim(1000))
	require.NoError(t, copyB.Claim(1000))

	// Act: the stored row arbitrates
	errA := repo.MarkClaimed(ctx, p.ID())
	errB := repo.MarkClaimed(ctx, p.ID())

	// Assert: exactly one winner
	require.NoError(t, errA)
	var alreadyClaimed *planet.ErrAlreadyClaimed
	require.ErrorAs(t, errB, &alreadyClaimed)
	assert.Equal(t, "Vega Reach", alreadyClaimed.Name)
}

func TestGormPlanetRepository_MarkClaimed_NotFound(t *testing.T) {
	// Arrange
	repo := newPlanetRepo(t)

	// Act
	err := repo.MarkClaimed(context.Background(), planet.NewID())

	// Assert
	var notFound *planet.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestGormPlanetRepository_FindClaimed(t *testing.T) {
	// Arrange: two claimed planets, one unclaimed
	repo := newPlanetRepo(t)
	ctx := context.Background()

	for i, claim := range []bool{true, false, true} {
		p := planet.New(planet.NewID(), "Lyra Expanse", i*200, 0, planet.SizeSmall,
			resource.Amounts{Gold: 500, Food: 500, Metal: 500})
		if claim {
			require.NoError(t, p.Claim(p.ClaimCost()))
		}
		require.NoError(t, repo.Save(ctx, p))
	}

	// Act
	claimed, err := repo.FindClaimed(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, claimed, 2)
	for _, p := range claimed {
		assert.True(t, p.Claimed())
	}
}

func TestGormPlanetRepository_FindBySector(t *testing.T) {
	// Arrange: positions (150,250) and (-10,-10) live in different sectors
	repo := newPlanetRepo(t)
	ctx := context.Background()

	inSector := planet.New(planet.NewID(), "Orion Landing", 150, 250, planet.SizeSmall,
		resource.Amounts{Gold: 500, Food: 500, Metal: 500})
	elsewhere := planet.New(planet.NewID(), "Cygnus Hollow", -10, -10, planet.SizeSmall,
		resource.Amounts{Gold: 500, Food: 500, Metal: 500})
	require.NoError(t, repo.Save(ctx, inSector))
	require.NoError(t, repo.Save(ctx, elsewhere))

	// Act
	found, err := repo.FindBySector(ctx, 1, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, inSector.ID(), found[0].ID())

	// Negative positions land in sector (-1,-1)
	negative, err := repo.FindBySector(ctx, -1, -1)
	require.NoError(t, err)
	require.Len(t, negative, 1)
	assert.Equal(t, elsewhere.ID(), negative[0].ID())
}

func TestGormPlanetRepository_FindBySector_Empty(t *testing.T) {
	repo := newPlanetRepo(t)

	found, err := repo.FindBySector(context.Background(), 7, 7)

	require.NoError(t, err)
	assert.Empty(t, found)
}
