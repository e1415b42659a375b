package app

import (
	"github.com/gin-gonic/gin"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/services"
	apperrors "github.com/fedejm/icecream-new-feature-test/internal/pkg/errors"
)

// ==================== Recipe handlers ====================

func (a *Application) listRecipes(c *gin.Context) {
	lineupOnly := c.Query("lineup") == "true"

	summaries, err := a.recipes.List(c.Request.Context(), lineupOnly)
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"recipes": summaries,
		"count":   len(summaries),
	})
}

func (a *Application) getRecipe(c *gin.Context) {
	recipe, err := a.recipes.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"name":   c.Param("name"),
		"recipe": recipe,
	})
}

func (a *Application) getRecipeWeight(c *gin.Context) {
	name := c.Param("name")
	weight, err := a.recipes.OriginalWeight(c.Request.Context(), name)
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"name":     name,
		"weight_g": weight,
	})
}

func (a *Application) listIngredients(c *gin.Context) {
	universe, err := a.recipes.IngredientUniverse(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"ingredients": universe,
		"count":       len(universe),
	})
}

func (a *Application) listContainers(c *gin.Context) {
	successResponse(c, gin.H{
		"containers": a.scaler.Containers(),
	})
}

// ==================== Scaling ====================

func (a *Application) scaleRecipe(c *gin.Context) {
	var req services.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	result, err := a.scaler.Scale(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, result)
}

// ==================== Weekly lineup ====================

func (a *Application) getLineup(c *gin.Context) {
	entries, err := a.recipes.Lineup(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"lineup": entries,
		"count":  len(entries),
	})
}

type putLineupRequest struct {
	Lineup []string `json:"lineup" binding:"required"`
}

func (a *Application) putLineup(c *gin.Context) {
	var req putLineupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, apperrors.InvalidInput(err.Error()))
		return
	}

	if err := a.recipes.SaveLineup(c.Request.Context(), req.Lineup); err != nil {
		a.handleError(c, err)
		return
	}

	entries, err := a.recipes.Lineup(c.Request.Context())
	if err != nil {
		a.handleError(c, err)
		return
	}

	successResponse(c, gin.H{
		"lineup": entries,
		"count":  len(entries),
	})
}
