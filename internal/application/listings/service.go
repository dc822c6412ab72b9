package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"villfinder-backend/internal/application/geo"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tables names the storage of one listing kind and of the rows that point at it.
type Tables struct {
	Listing            string
	CategoryJoin       string
	CategoryJoinColumn string
	Favorite           string
	FavoriteColumn     string
	Label              string
}

var kindTables = map[domain.ListingKind]Tables{
	domain.KindRental: {
		Listing:            "rentals",
		CategoryJoin:       "rental_categories",
		CategoryJoinColumn: "rental_id",
		Favorite:           "rental_favorites",
		FavoriteColumn:     "rental_id",
		Label:              "Rental",
	},
	domain.KindFoodEstablishment: {
		Listing:            "food_establishments",
		CategoryJoin:       "food_establishment_categories",
		CategoryJoinColumn: "food_establishment_id",
		Favorite:           "food_establishment_favorites",
		FavoriteColumn:     "food_establishment_id",
		Label:              "Food establishment",
	},
}

// TablesFor returns the storage layout of kind, or a ValidationError for unknown kinds.
func TablesFor(kind domain.ListingKind) (Tables, error) {
	t, ok := kindTables[kind]
	if !ok {
		return Tables{}, apperrors.Validation("target_kind", "target_kind must be one of rental, foodestablishment")
	}
	return t, nil
}

type Service struct {
	DB *gorm.DB
	// OnDelete runs after a listing and its dependent rows are removed.
	OnDelete []func(ctx context.Context, ref domain.TargetRef)
}

// Exists reports whether the referenced listing is stored.
func (s *Service) Exists(ctx context.Context, ref domain.TargetRef) (bool, error) {
	t, err := TablesFor(ref.Kind)
	if err != nil {
		return false, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Table(t.Listing).Where("id = ?", ref.ID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// RequireExists turns a missing listing into a NotFoundError.
func (s *Service) RequireExists(ctx context.Context, ref domain.TargetRef) error {
	ok, err := s.Exists(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(kindTables[ref.Kind].Label)
	}
	return nil
}

// Owner returns the owning profile id of the referenced listing.
func (s *Service) Owner(ctx context.Context, ref domain.TargetRef) (uint, error) {
	t, err := TablesFor(ref.Kind)
	if err != nil {
		return 0, err
	}
	var owner struct{ UserProfileID uint }
	res := s.DB.WithContext(ctx).Table(t.Listing).Select("user_profile_id").Where("id = ?", ref.ID).Limit(1).Scan(&owner)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.NotFound(t.Label)
	}
	return owner.UserProfileID, nil
}

func (s *Service) GetRental(ctx context.Context, id uint) (*domain.Rental, error) {
	var r domain.Rental
	err := s.DB.WithContext(ctx).Preload("Categories").Preload("Photos", orderPhotos).First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Rental")
		}
		return nil, err
	}
	return &r, nil
}

func (s *Service) GetFoodEstablishment(ctx context.Context, id uint) (*domain.FoodEstablishment, error) {
	var f domain.FoodEstablishment
	err := s.DB.WithContext(ctx).Preload("Categories").Preload("Photos", orderPhotos).First(&f, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Food establishment")
		}
		return nil, err
	}
	return &f, nil
}

// Get loads the referenced listing with categories and photos.
func (s *Service) Get(ctx context.Context, ref domain.TargetRef) (interface{}, error) {
	switch ref.Kind {
	case domain.KindRental:
		return s.GetRental(ctx, ref.ID)
	case domain.KindFoodEstablishment:
		return s.GetFoodEstablishment(ctx, ref.ID)
	}
	_, err := TablesFor(ref.Kind)
	return nil, err
}

func orderPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// BuildingInput carries the fields shared by both listing kinds.
type BuildingInput struct {
	OwnerID       uint
	Name          string
	Description   string
	Address       string
	Latitude      float64
	Longitude     float64
	IsFeatured    bool
	MapIcon       *string
	ContactNumber *string
	CategoryIDs   []uint
}

type CreateRentalInput struct {
	BuildingInput
	NumBedrooms        int
	NumBathrooms       int
	Kitchen            bool
	AirConditioning    bool
	Wifi               bool
	PetsAllowed        bool
	Refrigerator       bool
	EmergencyExit      bool
	PropertyType       domain.PropertyType
	PropertyCondition  domain.PropertyCondition
	FurnitureCondition domain.FurnitureCondition
	LeaseTerm          domain.LeaseTerm
	MonthlyRent        float64
}

type CreateFoodEstablishmentInput struct {
	BuildingInput
	OpeningTime *datatypes.Time
	ClosingTime *datatypes.Time
	Is24Hours   bool
}

func (s *Service) CreateRental(ctx context.Context, in CreateRentalInput) (*domain.Rental, error) {
	if in.PropertyType == "" {
		in.PropertyType = domain.PropertyApartment
	}
	if in.PropertyCondition == "" {
		in.PropertyCondition = domain.ConditionGood
	}
	if in.FurnitureCondition == "" {
		in.FurnitureCondition = domain.FurnitureGood
	}
	if in.LeaseTerm == "" {
		in.LeaseTerm = domain.LeaseLongTerm
	}
	switch {
	case !in.PropertyType.Valid():
		return nil, apperrors.Validation("property_type", "property_type must be one of APARTMENT, DORMITORY, CONDOMINIUM")
	case !in.PropertyCondition.Valid():
		return nil, apperrors.Validation("property_condition", "property_condition must be one of NEW, GOOD, FAIR, OLD")
	case !in.FurnitureCondition.Valid():
		return nil, apperrors.Validation("furniture_condition", "furniture_condition must be one of NEW, GOOD, USED")
	case !in.LeaseTerm.Valid():
		return nil, apperrors.Validation("lease_term", "lease_term must be one of SHORT_TERM, LONG_TERM, MONTH_TO_MONTH")
	case in.MonthlyRent <= 0:
		return nil, apperrors.Validation("monthly_rent", "monthly_rent must be positive")
	case in.NumBedrooms < 0 || in.NumBathrooms < 0:
		return nil, apperrors.Validation("num_bedrooms", "room counts cannot be negative")
	}

	r := &domain.Rental{
		NumBedrooms:        in.NumBedrooms,
		NumBathrooms:       in.NumBathrooms,
		Kitchen:            in.Kitchen,
		AirConditioning:    in.AirConditioning,
		Wifi:               in.Wifi,
		PetsAllowed:        in.PetsAllowed,
		Refrigerator:       in.Refrigerator,
		EmergencyExit:      in.EmergencyExit,
		PropertyType:       in.PropertyType,
		PropertyCondition:  in.PropertyCondition,
		FurnitureCondition: in.FurnitureCondition,
		LeaseTerm:          in.LeaseTerm,
		MonthlyRent:        in.MonthlyRent,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, cats, err := prepareBuilding(tx, "rentals", in.BuildingInput)
		if err != nil {
			return err
		}
		r.Building = b
		r.Categories = cats
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) CreateFoodEstablishment(ctx context.Context, in CreateFoodEstablishmentInput) (*domain.FoodEstablishment, error) {
	if !in.Is24Hours && (in.OpeningTime == nil) != (in.ClosingTime == nil) {
		return nil, apperrors.Validation("closing_time", "opening_time and closing_time must be set together")
	}
	f := &domain.FoodEstablishment{
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
		Is24Hours:   in.Is24Hours,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, cats, err := prepareBuilding(tx, "food_establishments", in.BuildingInput)
		if err != nil {
			return err
		}
		f.Building = b
		f.Categories = cats
		if err := tx.Create(f).Error; err != nil {
			return fmt.Errorf("failed to create food establishment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func prepareBuilding(tx *gorm.DB, table string, in BuildingInput) (domain.Building, []domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Building{}, nil, apperrors.Validation("name", "name is required")
	}
	if err := geo.ValidateLatitude("latitude", in.Latitude); err != nil {
		return domain.Building{}, nil, err
	}
	if err := geo.ValidateLongitude("longitude", in.Longitude); err != nil {
		return domain.Building{}, nil, err
	}
	var owners int64
	if err := tx.Model(&domain.UserProfile{}).Where("id = ?", in.OwnerID).Count(&owners).Error; err != nil {
		return domain.Building{}, nil, err
	}
	if owners == 0 {
		return domain.Building{}, nil, apperrors.NotFound("Profile")
	}
	var taken int64
	if err := tx.Table(table).Where("name = ?", name).Count(&taken).Error; err != nil {
		return domain.Building{}, nil, err
	}
	if taken > 0 {
		return domain.Building{}, nil, apperrors.Validation("name", "a listing with this name already exists")
	}
	var cats []domain.Category
	if len(in.CategoryIDs) > 0 {
		if err := tx.Where("id IN ?", in.CategoryIDs).Find(&cats).Error; err != nil {
			return domain.Building{}, nil, err
		}
		if len(cats) != len(in.CategoryIDs) {
			return domain.Building{}, nil, apperrors.NotFound("Category")
		}
	}
	return domain.Building{
		UserProfileID: in.OwnerID,
		Name:          name,
		Description:   in.Description,
		Address:       in.Address,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		IsFeatured:    in.IsFeatured,
		MapIcon:       in.MapIcon,
		ContactNumber: in.ContactNumber,
	}, cats, nil
}

// Delete removes a listing owned by requester along with its photos, category links,
// favorites and reviews.
func (s *Service) Delete(ctx context.Context, ref domain.TargetRef, requester uint) error {
	t, err := TablesFor(ref.Kind)
	if err != nil {
		return err
	}
	owner, err := s.Owner(ctx, ref)
	if err != nil {
		return err
	}
	if owner != requester {
		return apperrors.Permission("You can only delete your own listings")
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+t.Favorite+" WHERE "+t.FavoriteColumn+" = ?", ref.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", string(ref.Kind), ref.ID).Delete(&domain.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+t.CategoryJoin+" WHERE "+t.CategoryJoinColumn+" = ?", ref.ID).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM "+t.Listing+" WHERE id = ?", ref.ID).Error
	})
	if err != nil {
		return err
	}
	for _, fn := range s.OnDelete {
		fn(ctx, ref)
	}
	return nil
}

// AddPhoto appends a photo URL to a listing owned by requester.
func (s *Service) AddPhoto(ctx context.Context, ref domain.TargetRef, requester uint, url string) (*domain.Photo, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.Validation("url", "url is required")
	}
	owner, err := s.Owner(ctx, ref)
	if err != nil {
		return nil, err
	}
	if owner != requester {
		return nil, apperrors.Permission("You can only add photos to your own listings")
	}
	photo := &domain.Photo{OwnerID: ref.ID, OwnerType: string(ref.Kind), URL: url}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Photo{}).Where("owner_type = ? AND owner_id = ?", photo.OwnerType, ref.ID).Count(&n).Error; err != nil {
			return err
		}
		if n >= domain.MaxPhotosPerBuilding {
			return apperrors.Validation("photos", fmt.Sprintf("a listing can have at most %d photos", domain.MaxPhotosPerBuilding))
		}
		photo.Position = int(n)
		return tx.Create(photo).Error
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}
