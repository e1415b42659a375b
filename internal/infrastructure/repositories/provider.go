package repositories

import (
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

// Provider holds all repository instances
type Provider struct {
	Recipe    repositories.RecipeRepository
	Inventory repositories.InventoryRepository
	Threshold repositories.ThresholdRepository
	Exclusion repositories.ExclusionRepository
	Lineup    repositories.LineupRepository
	Flavor    repositories.FlavorRepository
}

// NewProvider creates a new repository provider over the JSON document store
func NewProvider(store *storage.Store, cfg config.StorageConfig) *Provider {
	return &Provider{
		Recipe:    NewRecipeRepository(store, cfg.RecipesFile),
		Inventory: NewInventoryRepository(store, cfg.InventoryFile),
		Threshold: NewThresholdRepository(store, cfg.ThresholdsFile),
		Exclusion: NewExclusionRepository(store, cfg.ExclusionsFile),
		Lineup:    NewLineupRepository(store, cfg.LineupFile),
		Flavor:    NewFlavorRepository(store, cfg.FlavorsFile),
	}
}
