package favorites

import (
	favsvc "villfinder-backend/internal/application/favorites"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/response"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *favsvc.Service
}

type toggleBody struct {
	TargetKind string `json:"target_kind"`
	TargetID   uint   `json:"target_id"`
	Favorite   *bool  `json:"favorite"`
}

// POST /api/v1/favorites, idempotent; favorite=true adds, favorite=false removes.
func (h *Handlers) Toggle(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body toggleBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.FromError(c, apperrors.Validation("body", "Invalid request body"))
	}
	if body.Favorite == nil {
		return response.FromError(c, apperrors.Validation("favorite", "favorite is required"))
	}
	kind, ok := domain.ParseListingKind(body.TargetKind)
	if !ok {
		return response.FromError(c, apperrors.Validation("target_kind", "target_kind must be one of rental, foodestablishment"))
	}
	if body.TargetID == 0 {
		return response.FromError(c, apperrors.Validation("target_id", "target_id is required"))
	}
	ref := domain.TargetRef{Kind: kind, ID: body.TargetID}

	if err := h.Service.Toggle(c.UserContext(), prof.ProfileID, ref, *body.Favorite); err != nil {
		return response.FromError(c, err)
	}
	msg := "Removed from favorites"
	if *body.Favorite {
		msg = "Added to favorites"
	}
	return response.Success(c, msg, fiber.Map{
		"target_kind": ref.Kind,
		"target_id":   ref.ID,
		"is_favorite": *body.Favorite,
	}, nil)
}

// GET /api/v1/favorites
func (h *Handlers) List(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	mine, err := h.Service.ListMine(c.UserContext(), prof.ProfileID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Favorites fetched successfully", mine, fiber.Map{
		"count": len(mine.Rentals) + len(mine.FoodEstablishments),
	})
}
