package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/services"
	apperrors "github.com/fedejm/icecream-new-feature-test/internal/pkg/errors"
)

// ==================== Batch run handlers ====================

type startBatchRequest struct {
	Recipe string                `json:"recipe" binding:"required"`
	Scale  services.ScaleRequest `json:"scale"`
}

// batchStep is the walker position rendered for the dashboard.
type batchStep struct {
	Ingredient string  `json:"ingredient"`
	Grams      float64 `json:"grams,omitempty"`
	Raw        string  `json:"raw,omitempty"`
	Index      int     `json:"index"`
	Total      int     `json:"total"`
}

type batchView struct {
	*models.BatchRun
	State   models.BatchState `json:"state"`
	Current *batchStep        `json:"current,omitempty"`
}

func renderBatch(run *models.BatchRun) batchView {
	view := batchView{BatchRun: run, State: run.State()}
	if name, amt, ok := run.Current(); ok {
		step := &batchStep{
			Ingredient: name,
			Index:      *run.Cursor,
			Total:      len(run.Order),
		}
		if amt.Numeric {
			step.Grams = amt.Grams
		} else {
			step.Raw = amt.Raw
		}
		view.Current = step
	}
	return view
}

func (a *Application) startBatch(c *gin.Context) {
	var req startBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	run, err := a.batches.Start(c.Request.Context(), req.Recipe, req.Scale)
	if err != nil {
		a.handleError(c, err)
		return
	}

	createdResponse(c, renderBatch(run))
}

func (a *Application) getBatch(c *gin.Context) {
	run, err := a.batches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.handleError(c, err)
		return
	}
	successResponse(c, renderBatch(run))
}

func (a *Application) batchNext(c *gin.Context) {
	a.batchTransition(c, a.batches.Next)
}

func (a *Application) batchBack(c *gin.Context) {
	a.batchTransition(c, a.batches.Back)
}

func (a *Application) batchReset(c *gin.Context) {
	a.batchTransition(c, a.batches.Reset)
}

func (a *Application) batchRestart(c *gin.Context) {
	a.batchTransition(c, a.batches.Restart)
}

func (a *Application) batchTransition(c *gin.Context, fn func(ctx context.Context, id string) (*models.BatchRun, error)) {
	run, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.handleError(c, err)
		return
	}
	successResponse(c, renderBatch(run))
}
