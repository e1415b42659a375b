package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
	apperrors "github.com/fedejm/icecream-new-feature-test/internal/pkg/errors"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
)

const testRecipes = `{
	"Vanilla": {
		"ingredients": {"milk": 613, "cream": 250, "sugar": 137},
		"instruction": ["Mix.", "Freeze."]
	},
	"Sorbet": {
		"ingredients": {"water": 700, "sugar": 250, "lemon juice": 50}
	}
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(testRecipes), 0644))

	return &config.Config{
		App: config.AppConfig{Name: "batchery", Env: "test"},
		Storage: config.StorageConfig{
			DataDir:        dir,
			RecipesFile:    "recipes.json",
			InventoryFile:  "ingredient_inventory.json",
			ThresholdsFile: "ingredient_thresholds.json",
			ExclusionsFile: "excluded_ingredients.json",
			LineupFile:     "weekly_lineup.json",
			FlavorsFile:    "inventory.json",
			CacheTTL:       time.Minute,
		},
		Scaling: config.ScalingConfig{
			DefaultDensity: 1.03,
			Containers: map[string]float64{
				"5l":     5.0,
				"1.5gal": 1.5 * 3.785411784,
			},
		},
		CORS: config.CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
	}
}

func newTestApp(t *testing.T) (*Application, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	store := storage.New(cfg.Storage, logger.NewNop())
	application, err := New(cfg, logger.NewNop(), store)
	require.NoError(t, err)
	return application, cfg
}

func doRequest(t *testing.T, app *Application, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)

	var envelope APIResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func dataMap(t *testing.T, envelope APIResponse) map[string]any {
	t.Helper()
	m, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", envelope.Data)
	return m
}

func TestListRecipes(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envelope.Success)

	data := dataMap(t, envelope)
	assert.Equal(t, float64(2), data["count"])
}

func TestGetRecipeNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/recipes/Pistachio", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, apperrors.ErrNotFound, envelope.Error.Code)
}

func TestGetRecipeWeight(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/recipes/Vanilla/weight", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(1000), data["weight_g"])
}

func TestListIngredients(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/ingredients", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(5), data["count"])
}

func TestScaleRecipe(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPost, "/api/v1/recipes/Vanilla/scale",
		`{"target_weight": 5000}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(5), data["factor"])
}

func TestScaleRecipeDirectiveErrors(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPost, "/api/v1/recipes/Vanilla/scale", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrValidation, envelope.Error.Code)

	w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/recipes/Vanilla/scale",
		`{"target_weight": 100, "multiplier": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrValidation, envelope.Error.Code)
}

func TestScaleRecipeMalformedBody(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPost, "/api/v1/recipes/Vanilla/scale",
		`{"target_weight": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, apperrors.ErrInvalidInput, envelope.Error.Code)
}

func TestBatchLifecycle(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPost, "/api/v1/batches",
		`{"recipe": "Vanilla", "scale": {"multiplier": 2}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, envelope)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "in_progress", data["state"])

	current, _ := data["current"].(map[string]any)
	require.NotNil(t, current)
	assert.Equal(t, "milk", current["ingredient"])
	assert.Equal(t, float64(1226), current["grams"])

	// Walk to completion.
	for i := 0; i < 3; i++ {
		w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/batches/"+id+"/next", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	data = dataMap(t, envelope)
	assert.Equal(t, "complete", data["state"])

	// Next past the end conflicts.
	w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/batches/"+id+"/next", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ErrConflict, envelope.Error.Code)

	// Restart re-enters at step 0.
	w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/batches/"+id+"/restart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, envelope)
	assert.Equal(t, "in_progress", data["state"])

	// Reset parks the run; restart resumes it over the same order.
	w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/batches/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, envelope)
	assert.Equal(t, "not_started", data["state"])

	w, envelope = doRequest(t, app, http.MethodPost, "/api/v1/batches/"+id+"/restart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, envelope)
	assert.Equal(t, "in_progress", data["state"])
	current, _ = data["current"].(map[string]any)
	require.NotNil(t, current)
	assert.Equal(t, "milk", current["ingredient"])
}

func TestBatchNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/batches/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrNotFound, envelope.Error.Code)
}

func TestInventoryRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPut, "/api/v1/inventory",
		`{"milk": {"amount": 2, "unit": "kg"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, envelope)
	items, _ := data["inventory"].([]any)
	require.NotEmpty(t, items)

	var milk map[string]any
	for _, raw := range items {
		item := raw.(map[string]any)
		if item["name"] == "milk" {
			milk = item
		}
	}
	require.NotNil(t, milk)
	assert.Equal(t, float64(2000), milk["grams"])
}

func TestInventoryLegacyMigration(t *testing.T) {
	app, cfg := newTestApp(t)

	path := filepath.Join(cfg.Storage.DataDir, cfg.Storage.InventoryFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"milk": 250}`), 0644))

	w, _ := doRequest(t, app, http.MethodGet, "/api/v1/inventory", "")
	require.Equal(t, http.StatusOK, w.Code)

	// The migrated document is persisted in the {amount, unit} shape.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, float64(250), onDisk["milk"]["amount"])
	assert.Equal(t, "g", onDisk["milk"]["unit"])
}

func TestReorderReport(t *testing.T) {
	app, _ := newTestApp(t)

	_, _ = doRequest(t, app, http.MethodPut, "/api/v1/inventory",
		`{"milk": {"amount": 100, "unit": "g"}}`)
	_, _ = doRequest(t, app, http.MethodPut, "/api/v1/thresholds",
		`{"milk": {"min": 500, "unit": "grams"}}`)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/inventory/reorder", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(1), data["count"])
}

func TestExclusionsHideIngredients(t *testing.T) {
	app, _ := newTestApp(t)

	w, _ := doRequest(t, app, http.MethodPut, "/api/v1/exclusions", `{"excluded": ["water"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/inventory", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	for _, raw := range data["inventory"].([]any) {
		item := raw.(map[string]any)
		assert.NotEqual(t, "water", item["name"])
	}
}

func TestLineupFlagsUnknownRecipes(t *testing.T) {
	app, _ := newTestApp(t)

	w, envelope := doRequest(t, app, http.MethodPut, "/api/v1/lineup",
		`{"lineup": ["Vanilla", "Discontinued"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, envelope)
	entries, _ := data["lineup"].([]any)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, raw := range entries {
		entry := raw.(map[string]any)
		byName[entry["name"].(string)] = entry["known"].(bool)
	}
	assert.True(t, byName["Vanilla"])
	assert.False(t, byName["Discontinued"])
}

func TestFlavorsZeroDefaultLineup(t *testing.T) {
	app, _ := newTestApp(t)

	_, _ = doRequest(t, app, http.MethodPut, "/api/v1/lineup", `{"lineup": ["Vanilla"]}`)

	w, envelope := doRequest(t, app, http.MethodGet, "/api/v1/flavors", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, envelope)
	flavors, _ := data["flavors"].([]any)
	require.Len(t, flavors, 1)
	entry := flavors[0].(map[string]any)
	assert.Equal(t, "Vanilla", entry["name"])
	assert.Equal(t, float64(0), entry["count"])
}

func TestHealthAndReady(t *testing.T) {
	app, cfg := newTestApp(t)

	w, _ := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Readiness degrades when the recipe document disappears. The store
	// caches by mtime, so removal is seen immediately.
	require.NoError(t, os.Remove(filepath.Join(cfg.Storage.DataDir, cfg.Storage.RecipesFile)))
	w, _ = doRequest(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
