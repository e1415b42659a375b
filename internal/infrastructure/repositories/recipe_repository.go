package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
)

type recipeRepository struct {
	store *storage.Store
	file  string
}

// NewRecipeRepository creates the read-only, file-backed recipe repository.
func NewRecipeRepository(store *storage.Store, file string) repositories.RecipeRepository {
	return &recipeRepository{store: store, file: file}
}

func (r *recipeRepository) LoadSet(ctx context.Context) (*models.RecipeSet, error) {
	data, err := r.store.LoadBytes(r.file)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrRecipesFileMissing, r.store.Path(r.file))
		}
		return nil, err
	}
	set, err := models.DecodeRecipeSet(data)
	if err != nil {
		return nil, &storage.DecodeError{Path: r.store.Path(r.file), Err: err}
	}
	return set, nil
}
