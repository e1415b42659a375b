package app

import (
	"github.com/gin-gonic/gin"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	apperrors "github.com/fedejm/icecream-new-feature-test/internal/pkg/errors"
)

// ==================== Inventory handlers ====================

func (a *Application) getInventory(c *gin.Context) {
	items, err := a.inventory.Inventory(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"inventory": items,
		"count":     len(items),
	})
}

func (a *Application) putInventory(c *gin.Context) {
	var updates map[string]models.InventoryRecord
	if err := c.ShouldBindJSON(&updates); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := a.inventory.SaveInventory(c.Request.Context(), updates); err != nil {
		a.handleError(c, err)
		return
	}

	a.getInventory(c)
}

func (a *Application) getReorderReport(c *gin.Context) {
	report, err := a.inventory.ReorderReport(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"reorder": report,
		"count":   len(report),
	})
}

// ==================== Threshold handlers ====================

func (a *Application) getThresholds(c *gin.Context) {
	items, err := a.inventory.Thresholds(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"thresholds": items,
		"count":      len(items),
	})
}

func (a *Application) putThresholds(c *gin.Context) {
	var updates map[string]models.ThresholdRecord
	if err := c.ShouldBindJSON(&updates); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := a.inventory.SaveThresholds(c.Request.Context(), updates); err != nil {
		a.handleError(c, err)
		return
	}

	a.getThresholds(c)
}

// ==================== Exclusion handlers ====================

func (a *Application) getExclusions(c *gin.Context) {
	excluded, err := a.inventory.Exclusions(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"excluded": excluded,
		"count":    len(excluded),
	})
}

type putExclusionsRequest struct {
	Excluded []string `json:"excluded" binding:"required"`
}

func (a *Application) putExclusions(c *gin.Context) {
	var req putExclusionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := a.inventory.SaveExclusions(c.Request.Context(), req.Excluded); err != nil {
		a.handleError(c, err)
		return
	}

	a.getExclusions(c)
}

// ==================== Flavor inventory handlers ====================

func (a *Application) getFlavors(c *gin.Context) {
	items, err := a.inventory.Flavors(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"flavors": items,
		"count":   len(items),
	})
}

func (a *Application) putFlavors(c *gin.Context) {
	var updates map[string]float64
	if err := c.ShouldBindJSON(&updates); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := a.inventory.SaveFlavors(c.Request.Context(), updates); err != nil {
		a.handleError(c, err)
		return
	}

	a.getFlavors(c)
}
