package profiles

import (
	"fmt"
	"net/http/httptest"
	"testing"

	profilesvc "villfinder-backend/internal/application/profiles"
	"villfinder-backend/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiles(t *testing.T) {
	db := testutil.NewDB(t)
	me := testutil.SeedProfile(t, db, "juan")
	other := testutil.SeedProfile(t, db, "ana")
	h := &Handlers{Service: &profilesvc.Service{DB: db}}

	app := fiber.New()
	app.Get("/profiles/me", func(c *fiber.Ctx) error {
		c.Locals("user", testutil.SessionUser(me.ID))
		return c.Next()
	}, h.Me)
	app.Get("/profiles/anonymous", h.Me)
	app.Get("/profiles/:id", h.Get)

	cases := []struct {
		url      string
		code     int
		username string
	}{
		{"/profiles/me", 200, "juan"},
		{fmt.Sprintf("/profiles/%d", other.ID), 200, "ana"},
		{"/profiles/9999", 404, ""},
		{"/profiles/zero", 400, ""},
		{"/profiles/anonymous", 401, ""},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.code, resp.StatusCode, tc.url)
		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		if tc.username != "" {
			assert.Equal(t, tc.username, result["data"].(map[string]interface{})["username"])
		}
	}
}
