package repositories

import (
	"context"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type flavorRepository struct {
	store *storage.Store
	file  string
}

// NewFlavorRepository creates the file-backed finished-flavor inventory repository.
func NewFlavorRepository(store *storage.Store, file string) repositories.FlavorRepository {
	return &flavorRepository{store: store, file: file}
}

func (r *flavorRepository) Load(ctx context.Context) (map[string]float64, error) {
	flavors := map[string]float64{}
	if err := r.store.LoadOrDefault(r.file, &flavors); err != nil {
		return nil, err
	}
	return flavors, nil
}

func (r *flavorRepository) Save(ctx context.Context, flavors map[string]float64) error {
	return r.store.Save(r.file, flavors)
}
