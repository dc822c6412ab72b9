package health

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	healthsvc "villfinder-backend/internal/application/health"
	"villfinder-backend/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{}

func (pinger) Ping() error { return nil }

func setupHealthTest(t *testing.T) (*fiber.App, *healthsvc.Checker) {
	rdb, _ := testutil.NewRedis(t)
	checker := &healthsvc.Checker{Rdb: rdb, DB: pinger{}}
	h := &Handlers{Checker: checker, HealthAdminKey: "s3cret"}
	app := fiber.New()
	app.Get("/", h.Dashboard)
	app.Get("/reset", h.Reset)
	app.Get("/health/json", h.JSON)
	app.Get("/health/errors", h.Errors)
	return app, checker
}

func TestJSON(t *testing.T) {
	app, _ := setupHealthTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "villfinder-api", result["service"])
	assert.Equal(t, "ok", result["status"])
}

func TestJSON_Degraded(t *testing.T) {
	h := &Handlers{Checker: &healthsvc.Checker{}}
	app := fiber.New()
	app.Get("/health/json", h.JSON)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	app, _ := setupHealthTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "All Systems Operational")
}

func TestErrorsAndReset(t *testing.T) {
	app, checker := setupHealthTest(t)
	require.NoError(t, healthsvc.RecordError(context.Background(), checker.Rdb, healthsvc.ErrorLog{
		Time: time.Now(), Method: "GET", Path: "/api/v1/reviews", Status: 500, Message: "boom",
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	var errs []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0]["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/reset?key=s3cret", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errs))
	assert.Empty(t, errs)
}
