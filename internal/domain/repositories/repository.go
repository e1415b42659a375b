package repositories

import (
	"context"
	"errors"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
)

// ErrRecipesFileMissing is returned when the primary recipe document is
// absent. Unlike every other document, recipes have no sensible default: the
// whole dashboard is built around them, so this is a fatal configuration
// error.
var ErrRecipesFileMissing = errors.New("recipes file missing")

// RecipeRepository provides read-only access to the recipe document. The
// document is maintained by an external editor; this service never writes it.
type RecipeRepository interface {
	LoadSet(ctx context.Context) (*models.RecipeSet, error)
}

// InventoryRepository persists per-ingredient stock records. Load reports
// whether legacy bare-number entries were upgraded so the caller can persist
// the migrated form once.
type InventoryRepository interface {
	Load(ctx context.Context) (map[string]models.InventoryRecord, bool, error)
	Save(ctx context.Context, inv map[string]models.InventoryRecord) error
}

// ThresholdRepository persists per-ingredient reorder floors.
type ThresholdRepository interface {
	Load(ctx context.Context) (map[string]models.ThresholdRecord, bool, error)
	Save(ctx context.Context, thresholds map[string]models.ThresholdRecord) error
}

// ExclusionRepository persists the set of ingredient names hidden from the
// inventory and threshold screens.
type ExclusionRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, excluded []string) error
}

// LineupRepository persists the weekly flavor lineup, a plain list of recipe
// names used to filter recipe pickers.
type LineupRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, lineup []string) error
}

// FlavorRepository persists finished-product counts per recipe name.
type FlavorRepository interface {
	Load(ctx context.Context) (map[string]float64, error)
	Save(ctx context.Context, flavors map[string]float64) error
}
