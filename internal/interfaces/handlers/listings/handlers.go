package listings

import (
	listsvc "villfinder-backend/internal/application/listings"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

func target(c *fiber.Ctx) (domain.TargetRef, error) {
	return validation.Target("kind", c.Params("kind"), "id", c.Params("id"))
}

// GET /api/v1/places/:kind/:id, listing with categories and ordered photos.
func (h *Handlers) Get(c *fiber.Ctx) error {
	ref, err := target(c)
	if err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.Get(c.UserContext(), ref)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, fiber.Map{"kind": ref.Kind})
}

// DELETE /api/v1/places/:kind/:id, owner only, 204.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	ref, err := target(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), ref, prof.ProfileID); err != nil {
		return response.FromError(c, err)
	}
	return response.NoContent(c)
}

type photoBody struct {
	URL string `json:"url"`
}

// POST /api/v1/places/:kind/:id/photos, records an uploaded photo, owner only.
func (h *Handlers) AddPhoto(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	ref, err := target(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body photoBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.FromError(c, apperrors.Validation("body", "Invalid request body"))
	}
	photo, err := h.Service.AddPhoto(c.UserContext(), ref, prof.ProfileID, body.URL)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Photo added successfully", photo, nil)
}
