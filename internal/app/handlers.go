package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fedejm/icecream-new-feature-test/internal/domain/models"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/services"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
	apperrors "github.com/fedejm/icecream-new-feature-test/internal/pkg/errors"
)

// APIResponse is the standard API response format
type APIResponse struct {
	Success   bool                `json:"success"`
	Data      interface{}         `json:"data,omitempty"`
	Error     *apperrors.APIError `json:"error,omitempty"`
	Timestamp string              `json:"timestamp"`
}

func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func errorResponse(c *gin.Context, apiErr *apperrors.APIError) {
	c.JSON(apiErr.HTTPStatus, APIResponse{
		Success:   false,
		Error:     apiErr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleError maps domain errors onto HTTP statuses and the error envelope.
func (a *Application) handleError(c *gin.Context, err error) {
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = a.classifyError(err)
	}
	errorResponse(c, apiErr)
}

func (a *Application) classifyError(err error) *apperrors.APIError {
	var convErr *models.ConversionError
	var decodeErr *storage.DecodeError

	switch {
	case errors.Is(err, services.ErrRecipeNotFound):
		return apperrors.NotFound("Recipe")
	case errors.Is(err, services.ErrBatchNotFound):
		return apperrors.NotFound("Batch run")
	case errors.Is(err, services.ErrNoDirective),
		errors.Is(err, services.ErrMultipleDirectives),
		errors.Is(err, services.ErrInvalidMultiplier),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidDensity),
		errors.Is(err, services.ErrUnknownContainer),
		errors.Is(err, services.ErrUnknownAnchor):
		return apperrors.Validation(err.Error())
	case errors.Is(err, services.ErrBatchNotRunning),
		errors.Is(err, services.ErrBatchAtStart),
		errors.Is(err, services.ErrBatchRunning):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, repositories.ErrRecipesFileMissing):
		return apperrors.MissingRecipe()
	case errors.As(err, &convErr):
		return apperrors.Conversion(convErr.Error())
	case errors.As(err, &decodeErr):
		return apperrors.DecodeError(decodeErr)
	default:
		a.logger.Error("Unhandled error", zap.Error(err))
		return apperrors.Internal("Internal server error")
	}
}

// Health and info endpoints

func (a *Application) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	// Ready means the recipe document is present and decodable.
	if _, err := a.repos.Recipe.LoadSet(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"reason":    "recipe document unavailable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *Application) apiInfo(c *gin.Context) {
	successResponse(c, gin.H{
		"name":        a.config.App.Name,
		"version":     "0.1.0",
		"description": "Recipe batching and raw-ingredient inventory service",
		"environment": a.config.App.Env,
	})
}
