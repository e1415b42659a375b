package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
)

// InventoryService handles raw-ingredient stock, reorder thresholds, the
// exclusion list and the finished-flavor counts.
type InventoryService interface {
	Inventory(ctx context.Context) ([]InventoryItem, error)
	SaveInventory(ctx context.Context, updates map[string]models.InventoryRecord) error
	Thresholds(ctx context.Context) ([]ThresholdItem, error)
	SaveThresholds(ctx context.Context, updates map[string]models.ThresholdRecord) error
	Exclusions(ctx context.Context) ([]string, error)
	SaveExclusions(ctx context.Context, excluded []string) error
	ReorderReport(ctx context.Context) ([]ReorderItem, error)
	Flavors(ctx context.Context) ([]FlavorItem, error)
	SaveFlavors(ctx context.Context, updates map[string]float64) error
}

// InventoryItem is one stock row as shown on the inventory screen.
type InventoryItem struct {
	Name   string                 `json:"name"`
	Record models.InventoryRecord `json:"record"`
	Grams  float64                `json:"grams"`
}

// ThresholdItem is one reorder-floor row.
type ThresholdItem struct {
	Name   string                 `json:"name"`
	Record models.ThresholdRecord `json:"record"`
}

// ReorderItem is an ingredient whose on-hand stock fell below its floor.
type ReorderItem struct {
	Name         string                 `json:"name"`
	OnHand       models.InventoryRecord `json:"on_hand"`
	OnHandGrams  float64                `json:"on_hand_grams"`
	Threshold    models.ThresholdRecord `json:"threshold"`
	ShortByGrams float64                `json:"short_by_grams"`
}

// FlavorItem is a finished-product count for one recipe.
type FlavorItem struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

type inventoryService struct {
	recipes       RecipeService
	inventoryRepo repositories.InventoryRepository
	thresholdRepo repositories.ThresholdRepository
	exclusionRepo repositories.ExclusionRepository
	lineupRepo    repositories.LineupRepository
	flavorRepo    repositories.FlavorRepository
	logger        *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	recipes RecipeService,
	inventoryRepo repositories.InventoryRepository,
	thresholdRepo repositories.ThresholdRepository,
	exclusionRepo repositories.ExclusionRepository,
	lineupRepo repositories.LineupRepository,
	flavorRepo repositories.FlavorRepository,
	log *logger.Logger,
) InventoryService {
	return &inventoryService{
		recipes:       recipes,
		inventoryRepo: inventoryRepo,
		thresholdRepo: thresholdRepo,
		exclusionRepo: exclusionRepo,
		lineupRepo:    lineupRepo,
		flavorRepo:    flavorRepo,
		logger:        log.WithComponent("inventory"),
	}
}

// loadInventory loads and normalizes the inventory document, persisting the
// migrated form once when legacy entries were upgraded.
func (s *inventoryService) loadInventory(ctx context.Context) (map[string]models.InventoryRecord, error) {
	inv, changed, err := s.inventoryRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.inventoryRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
		s.logger.Info("Inventory document migrated to {amount, unit} schema", zap.Int("entries", len(inv)))
	}
	return inv, nil
}

func (s *inventoryService) loadThresholds(ctx context.Context) (map[string]models.ThresholdRecord, error) {
	thresholds, changed, err := s.thresholdRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.thresholdRepo.Save(ctx, thresholds); err != nil {
			return nil, err
		}
		s.logger.Info("Thresholds document migrated to {min, unit} schema", zap.Int("entries", len(thresholds)))
	}
	return thresholds, nil
}

// visibleIngredients is the ingredient universe minus the exclusion list.
func (s *inventoryService) visibleIngredients(ctx context.Context) ([]string, map[string]struct{}, error) {
	universe, err := s.recipes.IngredientUniverse(ctx)
	if err != nil {
		return nil, nil, err
	}
	excluded, err := s.exclusionRepo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[strings.TrimSpace(name)] = struct{}{}
	}
	visible := make([]string, 0, len(universe))
	for _, name := range universe {
		if _, ok := skip[name]; ok {
			continue
		}
		visible = append(visible, name)
	}
	return visible, skip, nil
}

func (s *inventoryService) Inventory(ctx context.Context) ([]InventoryItem, error) {
	visible, _, err := s.visibleIngredients(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.loadInventory(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(visible))
	for _, name := range visible {
		rec, ok := inv[name]
		if !ok {
			rec = models.InventoryRecord{Amount: 0, Unit: "g"}
		}
		items = append(items, InventoryItem{Name: name, Record: rec, Grams: rec.Grams()})
	}
	return items, nil
}

func (s *inventoryService) SaveInventory(ctx context.Context, updates map[string]models.InventoryRecord) error {
	inv, err := s.loadInventory(ctx)
	if err != nil {
		return err
	}
	for name, rec := range updates {
		inv[name] = rec
	}
	return s.inventoryRepo.Save(ctx, inv)
}

func (s *inventoryService) Thresholds(ctx context.Context) ([]ThresholdItem, error) {
	visible, _, err := s.visibleIngredients(ctx)
	if err != nil {
		return nil, err
	}
	thresholds, err := s.loadThresholds(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ThresholdItem, 0, len(visible))
	for _, name := range visible {
		rec, ok := thresholds[name]
		if !ok {
			rec = models.ThresholdRecord{Min: 0, Unit: "grams"}
		}
		items = append(items, ThresholdItem{Name: name, Record: rec})
	}
	return items, nil
}

func (s *inventoryService) SaveThresholds(ctx context.Context, updates map[string]models.ThresholdRecord) error {
	thresholds, err := s.loadThresholds(ctx)
	if err != nil {
		return err
	}
	for name, rec := range updates {
		thresholds[name] = rec
	}
	return s.thresholdRepo.Save(ctx, thresholds)
}

func (s *inventoryService) Exclusions(ctx context.Context) ([]string, error) {
	excluded, err := s.exclusionRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(excluded)
	return excluded, nil
}

func (s *inventoryService) SaveExclusions(ctx context.Context, excluded []string) error {
	return s.exclusionRepo.Save(ctx, excluded)
}

// ReorderReport lists visible ingredients whose on-hand stock, converted to
// grams, sits below the threshold floor. Threshold units are display labels,
// so the floor value is compared at face value against grams.
func (s *inventoryService) ReorderReport(ctx context.Context) ([]ReorderItem, error) {
	visible, _, err := s.visibleIngredients(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.loadInventory(ctx)
	if err != nil {
		return nil, err
	}
	thresholds, err := s.loadThresholds(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]ReorderItem, 0)
	for _, name := range visible {
		threshold, ok := thresholds[name]
		if !ok || threshold.Min <= 0 {
			continue
		}
		onHand := inv[name]
		grams := onHand.Grams()
		if grams < threshold.Min {
			report = append(report, ReorderItem{
				Name:         name,
				OnHand:       onHand,
				OnHandGrams:  grams,
				Threshold:    threshold,
				ShortByGrams: models.Round2(threshold.Min - grams),
			})
		}
	}
	return report, nil
}

func (s *inventoryService) Flavors(ctx context.Context) ([]FlavorItem, error) {
	lineup, err := s.lineupRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	flavors, err := s.flavorRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	// Lineup entries show up with a zero count even before their first save.
	for _, name := range lineup {
		if _, ok := flavors[name]; !ok {
			flavors[name] = 0
		}
	}

	names := make([]string, 0, len(flavors))
	for name := range flavors {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]FlavorItem, 0, len(names))
	for _, name := range names {
		items = append(items, FlavorItem{Name: name, Count: flavors[name]})
	}
	return items, nil
}

func (s *inventoryService) SaveFlavors(ctx context.Context, updates map[string]float64) error {
	flavors, err := s.flavorRepo.Load(ctx)
	if err != nil {
		return err
	}
	for name, count := range updates {
		flavors[name] = count
	}
	return s.flavorRepo.Save(ctx, flavors)
}
