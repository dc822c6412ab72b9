package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	listsvc "villfinder-backend/internal/application/listings"
	uploadsvc "villfinder-backend/internal/application/uploads"
	"villfinder-backend/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct{ err error }

func (f *fakeStorage) CreateSignedUploadURL(_ context.Context, bucket, objectPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example.com/sign/" + bucket + "/" + objectPath, nil
}

func TestPhotoUploadURL(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedProfile(t, db, "owner")
	other := testutil.SeedProfile(t, db, "other")
	food := testutil.SeedFood(t, db, testutil.PlaceSeed{Owner: owner.ID, Name: "Manila Brew"})
	storage := &fakeStorage{}

	h := &Handlers{
		Service:  &uploadsvc.Service{Client: storage, BaseURL: "https://storage.example.com", Bucket: "building-photos"},
		Listings: &listsvc.Service{DB: db},
	}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id, err := strconv.Atoi(c.Get("X-Profile-Id")); err == nil {
			c.Locals("user", testutil.SessionUser(uint(id)))
		}
		return c.Next()
	})
	app.Post("/places/:kind/:id/photos/upload-url", h.PhotoUploadURL)

	post := func(as uint, id uint, body string) (int, map[string]interface{}) {
		req := httptest.NewRequest("POST", fmt.Sprintf("/places/foodestablishment/%d/photos/upload-url", id), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Profile-Id", strconv.Itoa(int(as)))
		resp, err := app.Test(req)
		require.NoError(t, err)
		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return resp.StatusCode, result
	}

	code, result := post(owner.ID, food.ID, `{"file_name":"front.jpg"}`)
	require.Equal(t, 200, code)
	data := result["data"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(data["public_url"].(string), "https://storage.example.com/storage/v1/object/public/building-photos/foodestablishment/"))
	assert.True(t, strings.HasSuffix(data["path"].(string), "-front.jpg"))

	code, _ = post(other.ID, food.ID, `{"file_name":"front.jpg"}`)
	assert.Equal(t, 403, code)
	code, _ = post(owner.ID, 999, `{"file_name":"front.jpg"}`)
	assert.Equal(t, 404, code)
	code, _ = post(owner.ID, food.ID, `{"file_name":""}`)
	assert.Equal(t, 400, code)

	storage.err = errors.New("storage down")
	code, result = post(owner.ID, food.ID, `{"file_name":"front.jpg"}`)
	assert.Equal(t, 502, code)
	assert.Equal(t, "Failed to generate upload URL", result["error"].(map[string]interface{})["message"])
}
