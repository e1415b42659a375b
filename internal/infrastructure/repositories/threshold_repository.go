package repositories

import (
	"context"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type thresholdRepository struct {
	store *storage.Store
	file  string
}

// NewThresholdRepository creates the file-backed reorder-threshold repository.
func NewThresholdRepository(store *storage.Store, file string) repositories.ThresholdRepository {
	return &thresholdRepository{store: store, file: file}
}

func (r *thresholdRepository) Load(ctx context.Context) (map[string]models.ThresholdRecord, bool, error) {
	raw := map[string]any{}
	if err := r.store.LoadOrDefault(r.file, &raw); err != nil {
		return nil, false, err
	}
	return models.NormalizeThresholds(raw)
}

func (r *thresholdRepository) Save(ctx context.Context, thresholds map[string]models.ThresholdRecord) error {
	return r.store.Save(r.file, thresholds)
}
