package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
)

// Scaling directive validation errors. These map to operator input mistakes,
// not system faults.
var (
	ErrNoDirective        = errors.New("no scaling directive supplied")
	ErrMultipleDirectives = errors.New("more than one scaling directive supplied")
	ErrUnknownContainer   = errors.New("unknown container label")
	ErrUnknownAnchor      = errors.New("anchor ingredient not in recipe")
	ErrInvalidMultiplier  = errors.New("multiplier must be positive")
	ErrInvalidTarget      = errors.New("target weight must be positive")
	ErrInvalidDensity     = errors.New("density must be positive")
)

// ScaleService computes a scale factor from one of the five scaling
// directives and applies it uniformly to a recipe's ingredient quantities.
type ScaleService interface {
	Scale(ctx context.Context, recipeName string, req ScaleRequest) (*ScaleResult, error)
	Containers() []ContainerSpec
}

// ScaleRequest selects exactly one scaling directive.
type ScaleRequest struct {
	// TargetWeight scales so the batch's total weight hits this many grams.
	TargetWeight *float64 `json:"target_weight,omitempty"`
	// Containers scales to fill the given counts per container label.
	Containers map[string]int `json:"containers,omitempty"`
	// Density in g/mL, used only with Containers. Defaults from config.
	Density *float64 `json:"density,omitempty"`
	// Anchor scales by the available amount of one ingredient.
	Anchor *AnchorRequest `json:"anchor,omitempty"`
	// Multiplier applies a factor directly.
	Multiplier *float64 `json:"multiplier,omitempty"`
	// Constraints caps the batch so no listed ingredient exceeds what is
	// on hand.
	Constraints map[string]float64 `json:"constraints,omitempty"`
}

// AnchorRequest names the limiting ingredient and how much of it is on hand.
type AnchorRequest struct {
	Ingredient     string  `json:"ingredient"`
	AvailableGrams float64 `json:"available_g"`
}

// ContainerSpec describes one configured container type.
type ContainerSpec struct {
	Label  string  `json:"label"`
	Liters float64 `json:"liters"`
}

// ScaleResult is a fully scaled recipe plus the applied factor. Instruction
// and sub-recipes pass through from the base recipe unscaled.
type ScaleResult struct {
	Recipe         string               `json:"recipe"`
	Factor         float64              `json:"factor"`
	OriginalWeight float64              `json:"original_weight_g"`
	TargetWeight   *float64             `json:"target_weight_g,omitempty"`
	TotalLiters    *float64             `json:"total_liters,omitempty"`
	Density        *float64             `json:"density_g_per_ml,omitempty"`
	Ingredients    models.IngredientMap `json:"ingredients"`
	TotalWeight    float64              `json:"total_weight_g"`
	Instruction    models.StringList    `json:"instruction"`
	Subrecipes     models.SubRecipeMap  `json:"subrecipes"`
	Warnings       []string             `json:"warnings,omitempty"`
}

type scaleService struct {
	recipes RecipeService
	cfg     config.ScalingConfig
}

// NewScaleService creates a new scale service
func NewScaleService(recipes RecipeService, cfg config.ScalingConfig) ScaleService {
	return &scaleService{recipes: recipes, cfg: cfg}
}

func (s *scaleService) Containers() []ContainerSpec {
	specs := make([]ContainerSpec, 0, len(s.cfg.Containers))
	for label, liters := range s.cfg.Containers {
		specs = append(specs, ContainerSpec{Label: label, Liters: liters})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Label < specs[j].Label })
	return specs
}

func (s *scaleService) Scale(ctx context.Context, recipeName string, req ScaleRequest) (*ScaleResult, error) {
	if err := validateDirective(req); err != nil {
		return nil, err
	}

	rec, err := s.recipes.Get(ctx, recipeName)
	if err != nil {
		return nil, err
	}

	result := &ScaleResult{
		Recipe:         recipeName,
		Factor:         1.0,
		OriginalWeight: rec.OriginalWeight(),
		Instruction:    rec.Instruction,
		Subrecipes:     rec.Subrecipes,
	}

	switch {
	case req.TargetWeight != nil:
		if err := s.scaleToTarget(result, *req.TargetWeight); err != nil {
			return nil, err
		}

	case len(req.Containers) > 0:
		if err := s.scaleToContainers(result, req.Containers, req.Density); err != nil {
			return nil, err
		}

	case req.Anchor != nil:
		if err := s.scaleByAnchor(result, rec, *req.Anchor); err != nil {
			return nil, err
		}

	case req.Multiplier != nil:
		if *req.Multiplier <= 0 {
			return nil, ErrInvalidMultiplier
		}
		result.Factor = *req.Multiplier

	default:
		result.Factor = scaleWithConstraints(rec.Ingredients, req.Constraints)
	}

	result.Ingredients = rec.Ingredients.Scale(result.Factor)
	result.TotalWeight = models.Round2(result.Ingredients.TotalGrams())
	return result, nil
}

func validateDirective(req ScaleRequest) error {
	n := 0
	if req.TargetWeight != nil {
		n++
	}
	if len(req.Containers) > 0 {
		n++
	}
	if req.Anchor != nil {
		n++
	}
	if req.Multiplier != nil {
		n++
	}
	if len(req.Constraints) > 0 {
		n++
	}
	switch n {
	case 0:
		return ErrNoDirective
	case 1:
		return nil
	default:
		return ErrMultipleDirectives
	}
}

func (s *scaleService) scaleToTarget(result *ScaleResult, target float64) error {
	if target <= 0 {
		return ErrInvalidTarget
	}
	result.TargetWeight = &target
	if result.OriginalWeight == 0 {
		result.Warnings = append(result.Warnings, "recipe has no measurable base weight; scaling skipped")
		return nil
	}
	result.Factor = target / result.OriginalWeight
	return nil
}

func (s *scaleService) scaleToContainers(result *ScaleResult, containers map[string]int, density *float64) error {
	d := s.cfg.DefaultDensity
	if density != nil {
		d = *density
	}
	if d <= 0 {
		return ErrInvalidDensity
	}

	var totalLiters float64
	for label, count := range containers {
		liters, ok := s.cfg.Containers[label]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownContainer, label)
		}
		if count > 0 {
			totalLiters += float64(count) * liters
		}
	}

	result.Density = &d
	result.TotalLiters = &totalLiters
	if totalLiters <= 0 {
		result.Warnings = append(result.Warnings, "no container volume selected; scaling skipped")
		return nil
	}

	target := totalLiters * 1000.0 * d
	return s.scaleToTarget(result, target)
}

func (s *scaleService) scaleByAnchor(result *ScaleResult, rec *models.Recipe, anchor AnchorRequest) error {
	amt, ok := rec.Ingredients.Get(anchor.Ingredient)
	if !ok || !amt.Numeric {
		return fmt.Errorf("%w: %q", ErrUnknownAnchor, anchor.Ingredient)
	}
	if anchor.AvailableGrams < 0 {
		return ErrInvalidTarget
	}
	if amt.Grams == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("anchor ingredient %q has a zero base amount; scaling skipped", anchor.Ingredient))
		return nil
	}
	result.Factor = anchor.AvailableGrams / amt.Grams
	return nil
}

// scaleWithConstraints takes the minimum available/base ratio across the
// ingredients present in both the recipe and the availability mapping, so no
// ingredient scales past what is on hand. With no usable ratios the factor
// stays 1.0.
func scaleWithConstraints(base models.IngredientMap, available map[string]float64) float64 {
	factor := 1.0
	found := false
	for name, avail := range available {
		amt, ok := base.Get(name)
		if !ok || !amt.Numeric || amt.Grams == 0 {
			continue
		}
		ratio := avail / amt.Grams
		if !found || ratio < factor {
			factor = ratio
			found = true
		}
	}
	return factor
}
