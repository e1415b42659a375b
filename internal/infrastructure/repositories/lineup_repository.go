package repositories

import (
	"context"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type lineupRepository struct {
	store *storage.Store
	file  string
}

// NewLineupRepository creates the file-backed weekly-lineup repository.
func NewLineupRepository(store *storage.Store, file string) repositories.LineupRepository {
	return &lineupRepository{store: store, file: file}
}

func (r *lineupRepository) Load(ctx context.Context) ([]string, error) {
	lineup := []string{}
	if err := r.store.LoadOrDefault(r.file, &lineup); err != nil {
		return nil, err
	}
	return lineup, nil
}

func (r *lineupRepository) Save(ctx context.Context, lineup []string) error {
	return r.store.Save(r.file, lineup)
}
