package router

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"villfinder-backend/internal/config"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		HealthAdminKey: "key",
		PhotoBucket:    "building-photos",
		Search:         config.SearchConfig{PageSize: 5, DefaultRadiusKm: 10, ListDefaultRadiusKm: 10000},
		Reviews:        config.ReviewConfig{PageSize: 5, CommentMaxLength: 1000},
	}
}

func TestNew_Routes(t *testing.T) {
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	me := testutil.SeedProfile(t, db, "juan")
	testutil.SeedRental(t, db, testutil.PlaceSeed{Owner: me.ID, Name: "Malate Studio"})

	b, _ := json.Marshal(map[string]interface{}{"user": testutil.SessionUser(me.ID)})
	require.NoError(t, mr.Set(middleware.SessionRedisPrefix+"sid-1", string(b)))

	app := New(testConfig(), db, rdb)
	call := func(method, url string, authed bool) *httpResult {
		req := httptest.NewRequest(method, url, nil)
		if authed {
			req.Header.Set("Cookie", middleware.SessionCookieName+"=sid-1")
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return &httpResult{code: resp.StatusCode, body: string(body), header: resp.Header.Get("X-Trace-Id")}
	}

	assert.Equal(t, 200, call("GET", "/health/json", false).code)
	assert.Equal(t, 401, call("GET", "/api/v1/places/search", false).code)

	res := call("GET", "/api/v1/places/search", true)
	assert.Equal(t, 200, res.code)
	assert.Contains(t, res.body, "Malate Studio")
	assert.NotEmpty(t, res.header)

	assert.Equal(t, 200, call("GET", "/api/v1/profiles/me", true).code)
	assert.Equal(t, 200, call("GET", "/api/v1/categories", true).code)
	assert.Equal(t, 200, call("GET", "/api/v1/favorites", true).code)
	assert.Equal(t, 404, call("GET", fmt.Sprintf("/api/v1/places/rental/%d", 999), true).code)
	assert.Equal(t, 404, call("GET", "/nowhere", false).code)

	metrics := call("GET", "/metrics", false)
	assert.Equal(t, 200, metrics.code)
	assert.Contains(t, metrics.body, "villfinder")

	total, _ := mr.Get("health:global:req_total")
	assert.NotEmpty(t, total)
}

func TestNew_WithoutDatabase(t *testing.T) {
	app := New(testConfig(), nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/places/search", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

type httpResult struct {
	code   int
	body   string
	header string
}
