package profiles

import (
	profilesvc "villfinder-backend/internal/application/profiles"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *profilesvc.Service
}

// GET /api/v1/profiles/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Get(c.UserContext(), prof.ProfileID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile fetched successfully", p, nil)
}

// GET /api/v1/profiles/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := validation.RequiredUint("id", c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile fetched successfully", p, nil)
}
