package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"villfinder-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })
	resp, rerr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, rerr)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestFromError_StatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.Validation("stars", "stars must be between 1 and 5"), 400},
		{fmt.Errorf("lookup: %w", apperrors.NotFound("Review")), 404},
		{apperrors.Permission("You can only delete your own review"), 403},
		{apperrors.ErrUnauthenticated, 401},
		{errors.New("connection reset"), 500},
	}
	for _, tc := range cases {
		code, out := serveError(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, "error", out["status"])
	}
}

func TestFromError_ValidationFieldDetail(t *testing.T) {
	code, out := serveError(t, apperrors.Validation("latitude", "latitude must be a number"))
	assert.Equal(t, 400, code)
	detail := out["error"].(map[string]interface{})
	assert.Equal(t, "latitude must be a number", detail["message"])
	assert.Equal(t, "latitude", detail["details"].(map[string]interface{})["field"])
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	_, out := serveError(t, errors.New("pq: relation does not exist"))
	assert.Equal(t, "Internal Server Error", out["error"].(map[string]interface{})["message"])
}
