package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
)

// Batch-run errors.
var (
	ErrBatchNotFound   = errors.New("batch run not found")
	ErrBatchNotRunning = errors.New("batch run is not in progress")
	ErrBatchAtStart    = errors.New("already at the first ingredient")
	ErrBatchRunning    = errors.New("batch run is still in progress")
)

// BatchService manages guided production runs: it scales a recipe once at
// start time and walks the result one ingredient at a time. Runs live in
// memory only; they are per-session working state, not a persisted document.
type BatchService interface {
	Start(ctx context.Context, recipeName string, scale ScaleRequest) (*models.BatchRun, error)
	Get(ctx context.Context, id string) (*models.BatchRun, error)
	Next(ctx context.Context, id string) (*models.BatchRun, error)
	Back(ctx context.Context, id string) (*models.BatchRun, error)
	Reset(ctx context.Context, id string) (*models.BatchRun, error)
	Restart(ctx context.Context, id string) (*models.BatchRun, error)
}

type batchService struct {
	scaler ScaleService
	logger *logger.Logger

	mu   sync.RWMutex
	runs map[string]*models.BatchRun
}

// NewBatchService creates a new batch service
func NewBatchService(scaler ScaleService, log *logger.Logger) BatchService {
	return &batchService{
		scaler: scaler,
		logger: log.WithComponent("batch"),
		runs:   make(map[string]*models.BatchRun),
	}
}

func (s *batchService) Start(ctx context.Context, recipeName string, scale ScaleRequest) (*models.BatchRun, error) {
	scaled, err := s.scaler.Scale(ctx, recipeName, scale)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	run := &models.BatchRun{
		ID:         uuid.NewString(),
		Recipe:     recipeName,
		Factor:     scaled.Factor,
		Quantities: scaled.Ingredients,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	run.Start()

	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	s.logger.WithBatch(run.ID).WithRecipe(recipeName).Info("Batch run started")
	return snapshot(run), nil
}

func (s *batchService) Get(ctx context.Context, id string) (*models.BatchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return snapshot(run), nil
}

func (s *batchService) Next(ctx context.Context, id string) (*models.BatchRun, error) {
	return s.update(id, func(run *models.BatchRun) error {
		if !run.Next() {
			return ErrBatchNotRunning
		}
		return nil
	})
}

func (s *batchService) Back(ctx context.Context, id string) (*models.BatchRun, error) {
	return s.update(id, func(run *models.BatchRun) error {
		if run.State() != models.BatchInProgress {
			return ErrBatchNotRunning
		}
		if !run.Back() {
			return ErrBatchAtStart
		}
		return nil
	})
}

func (s *batchService) Reset(ctx context.Context, id string) (*models.BatchRun, error) {
	return s.update(id, func(run *models.BatchRun) error {
		run.Reset()
		return nil
	})
}

func (s *batchService) Restart(ctx context.Context, id string) (*models.BatchRun, error) {
	return s.update(id, func(run *models.BatchRun) error {
		if !run.Restart() {
			return ErrBatchRunning
		}
		return nil
	})
}

func (s *batchService) update(id string, fn func(*models.BatchRun) error) (*models.BatchRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	if err := fn(run); err != nil {
		return nil, err
	}
	run.UpdatedAt = time.Now().UTC()
	return snapshot(run), nil
}

// snapshot copies a run so callers never share the service's mutable state.
func snapshot(run *models.BatchRun) *models.BatchRun {
	out := *run
	out.Order = append([]string(nil), run.Order...)
	if run.Cursor != nil {
		c := *run.Cursor
		out.Cursor = &c
	}
	return &out
}
