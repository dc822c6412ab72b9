package categories

import (
	catsvc "villfinder-backend/internal/application/categories"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *catsvc.Service
}

// GET /api/v1/categories?name=&all=&nested=, root categories unless all=true.
func (h *Handlers) List(c *fiber.Ctx) error {
	all, err := validation.Bool("all", c.Query("all"))
	if err != nil {
		return response.FromError(c, err)
	}
	nested, err := validation.Bool("nested", c.Query("nested"))
	if err != nil {
		return response.FromError(c, err)
	}
	cats, err := h.Service.List(c.UserContext(), catsvc.ListInput{Name: c.Query("name"), All: all, Nested: nested})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Categories fetched successfully", cats, fiber.Map{"count": len(cats)})
}

// GET /api/v1/categories/:id/closure?mode=ancestors|full
func (h *Handlers) Closure(c *fiber.Ctx) error {
	id, err := validation.RequiredUint("id", c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	mode, err := catsvc.ParseMode(c.Query("mode"))
	if err != nil {
		return response.FromError(c, err)
	}
	cats, err := h.Service.Closure(c.UserContext(), id, mode)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Category closure fetched successfully", cats, fiber.Map{
		"mode": mode,
		"ids":  catsvc.IDs(cats),
	})
}
