package search

import (
	"villfinder-backend/internal/application/geo"
	searchsvc "villfinder-backend/internal/application/search"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *searchsvc.Service
}

// GET /api/v1/places/search, rentals and food establishments, each paginated on its own.
func (h *Handlers) Search(c *fiber.Ctx) error {
	p, err := parseParams(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if p.RentalPage, err = validation.Page("rental_page", c.Query("rental_page")); err != nil {
		return response.FromError(c, err)
	}
	if p.FoodPage, err = validation.Page("food_page", c.Query("food_page")); err != nil {
		return response.FromError(c, err)
	}
	env, err := h.Service.Search(c.UserContext(), p)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Search completed", env, fiber.Map{"shape": p.Shape()})
}

// GET /api/v1/rentals/search
func (h *Handlers) SearchRentals(c *fiber.Ctx) error {
	return h.searchKind(c, domain.KindRental)
}

// GET /api/v1/food-establishments/search
func (h *Handlers) SearchFoodEstablishments(c *fiber.Ctx) error {
	return h.searchKind(c, domain.KindFoodEstablishment)
}

func (h *Handlers) searchKind(c *fiber.Ctx, kind domain.ListingKind) error {
	p, err := parseParams(c)
	if err != nil {
		return response.FromError(c, err)
	}
	page, err := validation.Page("page", c.Query("page"))
	if err != nil {
		return response.FromError(c, err)
	}
	result, err := h.Service.SearchKind(c.UserContext(), kind, p, page)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Search completed", result, fiber.Map{"shape": p.Shape(), "kind": kind})
}

func parseParams(c *fiber.Ctx) (searchsvc.Params, error) {
	var p searchsvc.Params
	var err error

	p.Query = c.Query("q")
	if p.CategoryID, err = validation.OptionalUint("category_id", c.Query("category_id")); err != nil {
		return p, err
	}
	if p.CategoryList, err = validation.IDList("category_list", validation.QueryValues(c, "category_list")); err != nil {
		return p, err
	}
	if p.FeaturedOnly, err = validation.Bool("is_featured", c.Query("is_featured")); err != nil {
		return p, err
	}

	lat, err := validation.OptionalFloat("latitude", c.Query("latitude"))
	if err != nil {
		return p, err
	}
	lon, err := validation.OptionalFloat("longitude", c.Query("longitude"))
	if err != nil {
		return p, err
	}
	if (lat == nil) != (lon == nil) {
		return p, apperrors.Validation("latitude", "latitude and longitude must be sent together")
	}
	if lat != nil {
		p.Center = &geo.Point{Lat: *lat, Lon: *lon}
	}
	if p.RadiusKm, err = validation.OptionalFloat("radius", c.Query("radius")); err != nil {
		return p, err
	}

	bounds := []struct {
		field string
		dst   **float64
	}{
		{"min_latitude", &p.Box.MinLat},
		{"max_latitude", &p.Box.MaxLat},
		{"min_longitude", &p.Box.MinLon},
		{"max_longitude", &p.Box.MaxLon},
	}
	for _, b := range bounds {
		if *b.dst, err = validation.OptionalFloat(b.field, c.Query(b.field)); err != nil {
			return p, err
		}
	}

	p.ViewerID = viewer(c)
	return p, p.Validate()
}

// Anonymous callers search without the per-viewer annotations.
func viewer(c *fiber.Ctx) uint {
	if prof, err := middleware.CurrentProfile(c); err == nil {
		return prof.ProfileID
	}
	return 0
}
