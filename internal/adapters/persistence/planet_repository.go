package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dockernauts/dockernauts-go/internal/domain/galaxy"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// GormPlanetRepository implements planet.Repository using GORM
type GormPlanetRepository struct {
	db *gorm.DB
}

// NewGormPlanetRepository creates a new GORM planet repository
func NewGormPlanetRepository(db *gorm.DB) *GormPlanetRepository {
	return &GormPlanetRepository{db: db}
}

// Save persists a planet, inserting or updating by ID
func (r *GormPlanetRepository) Save(ctx context.Context, p *planet.Planet) error {
	model := r.planetToModel(p)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save planet: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a planet by its ID
func (r *GormPlanetRepository) FindByID(ctx context.Context, id planet.ID) (*planet.Planet, error) {
	var model PlanetModel
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &planet.ErrNotFound{ID: id.String()}
		}
		return nil, fmt.Errorf("failed to find planet: %w", result.Error)
	}

	return r.modelToPlanet(&model)
}

// MarkClaimed flips the claimed flag on the stored row iff it is not set
// yet. The conditional update is the claim arbiter: claimers working from
// separately loaded copies of the same planet resolve to a single winner
// here, whatever their in-memory state says.
func (r *GormPlanetRepository) MarkClaimed(ctx context.Context, id planet.ID) error {
	result := r.db.WithContext(ctx).
		Model(&PlanetModel{}).
		Where("id = ? AND claimed = ?", id.String(), false).
		Update("claimed", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark planet claimed: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var model PlanetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &planet.ErrNotFound{ID: id.String()}
		}
		return fmt.Errorf("failed to mark planet claimed: %w", err)
	}
	return &planet.ErrAlreadyClaimed{ID: id, Name: model.Name}
}

// FindClaimed retrieves every claimed planet
func (r *GormPlanetRepository) FindClaimed(ctx context.Context) ([]*planet.Planet, error) {
	var models []PlanetModel
	result := r.db.WithContext(ctx).
		Where("claimed = ?", true).
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find claimed planets: %w", result.Error)
	}

	return r.modelsToPlanets(models)
}

// FindBySector retrieves the planets discovered within a sector
func (r *GormPlanetRepository) FindBySector(ctx context.Context, sectorX, sectorY int) ([]*planet.Planet, error) {
	var models []PlanetModel
	result := r.db.WithContext(ctx).
		Where("sector_x = ? AND sector_y = ?", sectorX, sectorY).
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find planets in sector: %w", result.Error)
	}

	return r.modelsToPlanets(models)
}

func (r *GormPlanetRepository) modelsToPlanets(models []PlanetModel) ([]*planet.Planet, error) {
	planets := make([]*planet.Planet, len(models))
	for i, model := range models {
		p, err := r.modelToPlanet(&model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert planet model: %w", err)
		}
		planets[i] = p
	}
	return planets, nil
}

// modelToPlanet converts database model to domain entity
func (r *GormPlanetRepository) modelToPlanet(model *PlanetModel) (*planet.Planet, error) {
	id, err := planet.NewIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid planet ID in database: %w", err)
	}

	size, err := planet.ParseSize(model.Size)
	if err != nil {
		return nil, fmt.Errorf("invalid planet size in database: %w", err)
	}

	return planet.Reconstruct(
		id,
		model.Name,
		model.X,
		model.Y,
		size,
		resource.Amounts{Gold: model.Gold, Food: model.Food, Metal: model.Metal},
		resource.Amounts{Gold: model.SpeedGold, Food: model.SpeedFood, Metal: model.SpeedMetal},
		resource.Amounts{Gold: model.UpGold, Food: model.UpFood, Metal: model.UpMetal},
		model.Claimed,
		true,
	), nil
}

// planetToModel converts domain entity to database model
func (r *GormPlanetRepository) planetToModel(p *planet.Planet) *PlanetModel {
	available := p.Available()
	speed := p.CollectionSpeed()
	upgrades := p.UpgradeLevels()
	sectorX, sectorY := galaxy.SectorOf(p.X(), p.Y())

	return &PlanetModel{
		ID:         p.ID().String(),
		Name:       p.Name(),
		X:          p.X(),
		Y:          p.Y(),
		Size:       p.Size().String(),
		Gold:       available.Gold,
		Food:       available.Food,
		Metal:      available.Metal,
		SpeedGold:  speed.Gold,
		SpeedFood:  speed.Food,
		SpeedMetal: speed.Metal,
		UpGold:     upgrades.Gold,
		UpFood:     upgrades.Food,
		UpMetal:    upgrades.Metal,
		Claimed:    p.Claimed(),
		SectorX:    sectorX,
		SectorY:    sectorY,
	}
}
