package repositories

import (
	"context"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type exclusionRepository struct {
	store *storage.Store
	file  string
}

// NewExclusionRepository creates the file-backed excluded-ingredients repository.
func NewExclusionRepository(store *storage.Store, file string) repositories.ExclusionRepository {
	return &exclusionRepository{store: store, file: file}
}

func (r *exclusionRepository) Load(ctx context.Context) ([]string, error) {
	excluded := []string{}
	if err := r.store.LoadOrDefault(r.file, &excluded); err != nil {
		return nil, err
	}
	return excluded, nil
}

func (r *exclusionRepository) Save(ctx context.Context, excluded []string) error {
	return r.store.Save(r.file, excluded)
}
