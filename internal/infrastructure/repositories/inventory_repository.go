package repositories

import (
	"context"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type inventoryRepository struct {
	store *storage.Store
	file  string
}

// NewInventoryRepository creates the file-backed ingredient inventory repository.
func NewInventoryRepository(store *storage.Store, file string) repositories.InventoryRepository {
	return &inventoryRepository{store: store, file: file}
}

func (r *inventoryRepository) Load(ctx context.Context) (map[string]models.InventoryRecord, bool, error) {
	raw := map[string]any{}
	if err := r.store.LoadOrDefault(r.file, &raw); err != nil {
		return nil, false, err
	}
	return models.NormalizeInventory(raw)
}

func (r *inventoryRepository) Save(ctx context.Context, inv map[string]models.InventoryRecord) error {
	return r.store.Save(r.file, inv)
}
