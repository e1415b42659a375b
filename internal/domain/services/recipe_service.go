package services

import (
	"context"
	"errors"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
)

// ErrRecipeNotFound is returned when a named recipe does not exist in the
// recipe document.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService handles recipe read access and lineup filtering
type RecipeService interface {
	List(ctx context.Context, lineupOnly bool) ([]RecipeSummary, error)
	Get(ctx context.Context, name string) (*models.Recipe, error)
	OriginalWeight(ctx context.Context, name string) (float64, error)
	IngredientUniverse(ctx context.Context) ([]string, error)
	Lineup(ctx context.Context) ([]LineupEntry, error)
	SaveLineup(ctx context.Context, lineup []string) error
}

// RecipeSummary is the picker row shown by the dashboard.
type RecipeSummary struct {
	Name            string  `json:"name"`
	IngredientCount int     `json:"ingredient_count"`
	OriginalWeight  float64 `json:"original_weight_g"`
	SubrecipeCount  int     `json:"subrecipe_count"`
}

// LineupEntry is one weekly-lineup slot. Known is false when the lineup
// names a recipe that no longer exists in the recipe document; the entry is
// kept so the operator can see and fix it.
type LineupEntry struct {
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

type recipeService struct {
	recipeRepo repositories.RecipeRepository
	lineupRepo repositories.LineupRepository
}

// NewRecipeService creates a new recipe service
func NewRecipeService(recipeRepo repositories.RecipeRepository, lineupRepo repositories.LineupRepository) RecipeService {
	return &recipeService{
		recipeRepo: recipeRepo,
		lineupRepo: lineupRepo,
	}
}

func (s *recipeService) List(ctx context.Context, lineupOnly bool) ([]RecipeSummary, error) {
	set, err := s.recipeRepo.LoadSet(ctx)
	if err != nil {
		return nil, err
	}

	var inLineup map[string]struct{}
	if lineupOnly {
		lineup, err := s.lineupRepo.Load(ctx)
		if err != nil {
			return nil, err
		}
		// An empty lineup filters nothing; the full list stays visible.
		if len(lineup) > 0 {
			inLineup = make(map[string]struct{}, len(lineup))
			for _, name := range lineup {
				inLineup[name] = struct{}{}
			}
		}
	}

	summaries := make([]RecipeSummary, 0, set.Len())
	for _, name := range set.Names() {
		if inLineup != nil {
			if _, ok := inLineup[name]; !ok {
				continue
			}
		}
		rec, _ := set.Get(name)
		summaries = append(summaries, RecipeSummary{
			Name:            name,
			IngredientCount: rec.Ingredients.Len(),
			OriginalWeight:  rec.OriginalWeight(),
			SubrecipeCount:  len(rec.Subrecipes),
		})
	}
	return summaries, nil
}

func (s *recipeService) Get(ctx context.Context, name string) (*models.Recipe, error) {
	set, err := s.recipeRepo.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := set.Get(name)
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return &rec, nil
}

func (s *recipeService) OriginalWeight(ctx context.Context, name string) (float64, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	return rec.OriginalWeight(), nil
}

func (s *recipeService) IngredientUniverse(ctx context.Context) ([]string, error) {
	set, err := s.recipeRepo.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	return set.IngredientUniverse(), nil
}

func (s *recipeService) Lineup(ctx context.Context) ([]LineupEntry, error) {
	set, err := s.recipeRepo.LoadSet(ctx)
	if err != nil {
		return nil, err
	}
	lineup, err := s.lineupRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]LineupEntry, 0, len(lineup))
	for _, name := range lineup {
		_, known := set.Get(name)
		entries = append(entries, LineupEntry{Name: name, Known: known})
	}
	return entries, nil
}

func (s *recipeService) SaveLineup(ctx context.Context, lineup []string) error {
	return s.lineupRepo.Save(ctx, lineup)
}
