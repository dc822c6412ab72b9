package categories

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	catsvc "villfinder-backend/internal/application/categories"
	"villfinder-backend/internal/infrastructure/cache"
	"villfinder-backend/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoriesTest(t *testing.T) (*fiber.App, map[string]uint) {
	svc := &catsvc.Service{DB: testutil.NewDB(t), Cache: cache.NewLocal[*catsvc.Forest](time.Minute)}
	ctx := context.Background()
	housing, err := svc.Create(ctx, catsvc.CreateInput{Name: "Housing"})
	require.NoError(t, err)
	apt, err := svc.Create(ctx, catsvc.CreateInput{Name: "Apartment", ParentID: &housing.ID})
	require.NoError(t, err)
	studio, err := svc.Create(ctx, catsvc.CreateInput{Name: "Studio", ParentID: &apt.ID})
	require.NoError(t, err)

	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Get("/categories", h.List)
	app.Get("/categories/:id/closure", h.Closure)
	return app, map[string]uint{"housing": housing.ID, "apartment": apt.ID, "studio": studio.ID}
}

func get(t *testing.T, app *fiber.App, url string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestList_RootsByDefault(t *testing.T) {
	app, _ := setupCategoriesTest(t)

	code, result := get(t, app, "/categories")
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", result["status"])
	assert.Len(t, result["data"], 1)

	_, result = get(t, app, "/categories?all=true")
	assert.Len(t, result["data"], 3)
	assert.Equal(t, float64(3), result["metadata"].(map[string]interface{})["count"])

	code, _ = get(t, app, "/categories?all=perhaps")
	assert.Equal(t, 400, code)
}

func TestClosure_Modes(t *testing.T) {
	app, ids := setupCategoriesTest(t)

	code, result := get(t, app, fmt.Sprintf("/categories/%d/closure?mode=ancestors", ids["studio"]))
	assert.Equal(t, 200, code)
	assert.Len(t, result["data"], 3)

	_, result = get(t, app, fmt.Sprintf("/categories/%d/closure", ids["apartment"]))
	meta := result["metadata"].(map[string]interface{})
	assert.Equal(t, "full", meta["mode"])
	assert.Len(t, meta["ids"], 3)
}

func TestClosure_Errors(t *testing.T) {
	app, ids := setupCategoriesTest(t)

	code, result := get(t, app, "/categories/999/closure")
	assert.Equal(t, 404, code)
	assert.Equal(t, "Category not found", result["error"].(map[string]interface{})["message"])

	code, _ = get(t, app, "/categories/abc/closure")
	assert.Equal(t, 400, code)

	code, _ = get(t, app, fmt.Sprintf("/categories/%d/closure?mode=sideways", ids["housing"]))
	assert.Equal(t, 400, code)
}
