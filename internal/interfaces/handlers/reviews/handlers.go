package reviews

import (
	"strings"

	reviewsvc "villfinder-backend/internal/application/reviews"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *reviewsvc.Service
}

type upsertBody struct {
	TargetKind string  `json:"target_kind"`
	TargetID   uint    `json:"target_id"`
	Stars      *int    `json:"stars"`
	Comment    *string `json:"comment"`
}

// POST /api/v1/reviews, 201 when the review is new, 200 when an existing one was updated.
func (h *Handlers) Upsert(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body upsertBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.FromError(c, apperrors.Validation("body", "Invalid request body"))
	}
	review, created, err := h.Service.Upsert(c.UserContext(), reviewsvc.UpsertInput{
		ProfileID:  prof.ProfileID,
		TargetKind: body.TargetKind,
		TargetID:   body.TargetID,
		Stars:      body.Stars,
		Comment:    body.Comment,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	if created {
		return response.SuccessCreated(c, "Review created successfully", review, nil)
	}
	return response.Success(c, "Review updated successfully", review, nil)
}

// GET /api/v1/reviews?target_kind=&target_id=&page=
func (h *Handlers) List(c *fiber.Ctx) error {
	ref, err := validation.Target("target_kind", c.Query("target_kind"), "target_id", c.Query("target_id"))
	if err != nil {
		return response.FromError(c, err)
	}
	page, err := validation.Page("page", c.Query("page"))
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.ListByTarget(c.UserContext(), ref, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reviews fetched successfully", out, nil)
}

// GET /api/v1/reviews/mine?page=
func (h *Handlers) Mine(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	page, err := validation.Page("page", c.Query("page"))
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.Service.ListMine(c.UserContext(), prof.ProfileID, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reviews fetched successfully", out, nil)
}

// GET /api/v1/reviews/summary?target_kind=&target_id=
func (h *Handlers) Summary(c *fiber.Ctx) error {
	ref, err := validation.Target("target_kind", c.Query("target_kind"), "target_id", c.Query("target_id"))
	if err != nil {
		return response.FromError(c, err)
	}
	summary, err := h.Service.Summary(c.UserContext(), ref)
	if err != nil {
		return response.FromError(c, err)
	}
	meta := fiber.Map{}
	if prof, err := middleware.CurrentProfile(c); err == nil {
		mine, err := h.Service.GetReview(c.UserContext(), prof.ProfileID, ref)
		if err != nil {
			return response.FromError(c, err)
		}
		meta["has_reviewed"] = mine != nil
		meta["my_review"] = mine
	}
	return response.Success(c, "Review summary fetched successfully", summary, meta)
}

// DELETE /api/v1/reviews/:id, 204, author only.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := validation.RequiredUint("id", strings.TrimSpace(c.Params("id")))
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, prof.ProfileID); err != nil {
		return response.FromError(c, err)
	}
	return response.NoContent(c)
}
