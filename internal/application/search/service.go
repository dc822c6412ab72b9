package search

import (
	"context"
	"strings"

	"villfinder-backend/internal/application/categories"
	"villfinder-backend/internal/application/favorites"
	"villfinder-backend/internal/application/geo"
	"villfinder-backend/internal/application/listings"
	"villfinder-backend/internal/application/reviews"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/metrics"
	"villfinder-backend/internal/pkg/pagination"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize     = 5
	defaultRadiusKm     = 10.0
	defaultListRadiusKm = 10000.0
)

// Request shapes. The single shape filters by one category_id and its ancestors,
// the list shape by the full closure of category_list.
const (
	ShapeSingle = "single"
	ShapeList   = "list"
)

// Params is one search request. A nil CategoryList means the caller did not send one.
type Params struct {
	Query        string
	CategoryID   *uint
	CategoryList []uint
	Center       *geo.Point
	RadiusKm     *float64
	Box          geo.BoundingBox
	FeaturedOnly bool
	RentalPage   int
	FoodPage     int
	ViewerID     uint
}

// Shape reports which request contract the params follow.
func (p Params) Shape() string {
	if p.CategoryList != nil {
		return ShapeList
	}
	return ShapeSingle
}

func (p Params) Validate() error {
	if p.CategoryID != nil && p.CategoryList != nil {
		return apperrors.Validation("category_list", "Use either category_id or category_list, not both")
	}
	if p.Center != nil {
		if err := geo.ValidateLatitude("latitude", p.Center.Lat); err != nil {
			return err
		}
		if err := geo.ValidateLongitude("longitude", p.Center.Lon); err != nil {
			return err
		}
	}
	if p.RadiusKm != nil && *p.RadiusKm < 0 {
		return apperrors.Validation("radius", "radius cannot be negative")
	}
	return nil
}

// Annotations are the per-viewer fields added to every search result.
type Annotations struct {
	DistanceKm  *float64       `json:"distance_km,omitempty"`
	ReviewCount int64          `json:"review_count"`
	HasReviewed bool           `json:"has_reviewed"`
	MyReview    *domain.Review `json:"my_review"`
	IsFavorite  bool           `json:"is_favorite"`
}

type RentalResult struct {
	domain.Rental
	Annotations
}

type FoodEstablishmentResult struct {
	domain.FoodEstablishment
	Annotations
}

// Envelope carries both independently paginated result sets.
type Envelope struct {
	Rentals            pagination.Page[RentalResult]            `json:"rentals"`
	FoodEstablishments pagination.Page[FoodEstablishmentResult] `json:"food_establishments"`
}

type Service struct {
	DB         *gorm.DB
	Categories *categories.Service
	Reviews    *reviews.Service
	Favorites  *favorites.Service

	PageSize            int
	DefaultRadiusKm     float64
	ListDefaultRadiusKm float64
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return defaultPageSize
}

func (s *Service) radius(p Params) float64 {
	if p.RadiusKm != nil {
		return *p.RadiusKm
	}
	if p.Shape() == ShapeList {
		if s.ListDefaultRadiusKm > 0 {
			return s.ListDefaultRadiusKm
		}
		return defaultListRadiusKm
	}
	if s.DefaultRadiusKm > 0 {
		return s.DefaultRadiusKm
	}
	return defaultRadiusKm
}

// categoryFilter resolves the selectors to the category ids a listing must intersect.
// The flag is false when no category filter applies.
func (s *Service) categoryFilter(ctx context.Context, p Params) ([]uint, bool, error) {
	switch {
	case p.CategoryID != nil:
		chain, err := s.Categories.AncestorChain(ctx, *p.CategoryID)
		if apperrors.IsNotFound(err) {
			return nil, false, apperrors.Validation("category_id", "Invalid category ID")
		}
		if err != nil {
			return nil, false, err
		}
		return categories.IDs(chain), true, nil
	case len(p.CategoryList) > 0:
		closure, err := s.Categories.FullClosure(ctx, p.CategoryList)
		if err != nil {
			return nil, false, err
		}
		return categories.IDs(closure), true, nil
	}
	return nil, false, nil
}

type place interface {
	geo.Positioned
	Place() *domain.Building
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Service) baseQuery(ctx context.Context, model interface{}, t listings.Tables, p Params, cats []uint, filterCats bool) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(model)
	if text := strings.ToLower(strings.TrimSpace(p.Query)); text != "" {
		like := "%" + likeEscaper.Replace(text) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if p.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if filterCats {
		if len(cats) == 0 {
			return q.Where("1 = 0")
		}
		sub := s.DB.Table(t.CategoryJoin).Select(t.CategoryJoinColumn).Where("category_id IN ?", cats)
		q = q.Where("id IN (?)", sub)
	}
	return q.Preload("Categories").Order("id")
}

func narrow[T place](items []T, p Params, radiusKm float64) []T {
	items = geo.FilterByBox(items, p.Box)
	if p.Center != nil {
		items = geo.FilterByRadius(items, *p.Center, radiusKm)
	}
	return items
}

func buildingIDs[T place](items []T) []uint {
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.Place().ID
	}
	return ids
}

// annotator batches the viewer lookups for one page of results.
func (s *Service) annotator(ctx context.Context, kind domain.ListingKind, ids []uint, p Params) (func(place) Annotations, error) {
	counts, err := s.Reviews.CountsByTargets(ctx, kind, ids)
	if err != nil {
		return nil, err
	}
	mine, err := s.Reviews.ByAuthorForTargets(ctx, p.ViewerID, kind, ids)
	if err != nil {
		return nil, err
	}
	favs, err := s.Favorites.FavoritedIDs(ctx, p.ViewerID, kind, ids)
	if err != nil {
		return nil, err
	}
	return func(it place) Annotations {
		id := it.Place().ID
		a := Annotations{
			ReviewCount: counts[id],
			MyReview:    mine[id],
			HasReviewed: mine[id] != nil,
			IsFavorite:  favs[id],
		}
		if p.Center != nil {
			d := geo.DistanceTo(*p.Center, it)
			a.DistanceKm = &d
		}
		return a
	}, nil
}

func (s *Service) rentals(ctx context.Context, p Params, cats []uint, filterCats bool, page int) (pagination.Page[RentalResult], error) {
	t, _ := listings.TablesFor(domain.KindRental)
	var rows []domain.Rental
	if err := s.baseQuery(ctx, &domain.Rental{}, t, p, cats, filterCats).Find(&rows).Error; err != nil {
		return pagination.Page[RentalResult]{}, err
	}
	items := make([]*domain.Rental, len(rows))
	for i := range rows {
		items[i] = &rows[i]
	}
	pg := pagination.Slice(narrow(items, p, s.radius(p)), page, s.pageSize())
	annotate, err := s.annotator(ctx, domain.KindRental, buildingIDs(pg.Results), p)
	if err != nil {
		return pagination.Page[RentalResult]{}, err
	}
	return pagination.Map(pg, func(r *domain.Rental) RentalResult {
		return RentalResult{Rental: *r, Annotations: annotate(r)}
	}), nil
}

func (s *Service) foodEstablishments(ctx context.Context, p Params, cats []uint, filterCats bool, page int) (pagination.Page[FoodEstablishmentResult], error) {
	t, _ := listings.TablesFor(domain.KindFoodEstablishment)
	var rows []domain.FoodEstablishment
	if err := s.baseQuery(ctx, &domain.FoodEstablishment{}, t, p, cats, filterCats).Find(&rows).Error; err != nil {
		return pagination.Page[FoodEstablishmentResult]{}, err
	}
	items := make([]*domain.FoodEstablishment, len(rows))
	for i := range rows {
		items[i] = &rows[i]
	}
	pg := pagination.Slice(narrow(items, p, s.radius(p)), page, s.pageSize())
	annotate, err := s.annotator(ctx, domain.KindFoodEstablishment, buildingIDs(pg.Results), p)
	if err != nil {
		return pagination.Page[FoodEstablishmentResult]{}, err
	}
	return pagination.Map(pg, func(f *domain.FoodEstablishment) FoodEstablishmentResult {
		return FoodEstablishmentResult{FoodEstablishment: *f, Annotations: annotate(f)}
	}), nil
}

func (s *Service) prepare(ctx context.Context, p Params) ([]uint, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	cats, filterCats, err := s.categoryFilter(ctx, p)
	if err != nil {
		return nil, false, err
	}
	metrics.Searched(p.Shape())
	return cats, filterCats, nil
}

// Search runs the filter pipeline over both listing kinds and pages each result set on its own.
func (s *Service) Search(ctx context.Context, p Params) (*Envelope, error) {
	cats, filterCats, err := s.prepare(ctx, p)
	if err != nil {
		return nil, err
	}
	rentals, err := s.rentals(ctx, p, cats, filterCats, p.RentalPage)
	if err != nil {
		return nil, err
	}
	food, err := s.foodEstablishments(ctx, p, cats, filterCats, p.FoodPage)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("shape", p.Shape()).Int("rentals", rentals.Count).Int("food_establishments", food.Count).Msg("search")
	return &Envelope{Rentals: rentals, FoodEstablishments: food}, nil
}

// SearchKind runs the pipeline for one listing kind. The result is a
// pagination.Page of RentalResult or FoodEstablishmentResult.
func (s *Service) SearchKind(ctx context.Context, kind domain.ListingKind, p Params, page int) (interface{}, error) {
	if _, err := listings.TablesFor(kind); err != nil {
		return nil, err
	}
	cats, filterCats, err := s.prepare(ctx, p)
	if err != nil {
		return nil, err
	}
	if kind == domain.KindRental {
		return s.rentals(ctx, p, cats, filterCats, page)
	}
	return s.foodEstablishments(ctx, p, cats, filterCats, page)
}
