package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ListingKind discriminates the two listing variants. It doubles as the review and photo target kind.
type ListingKind string

const (
	KindRental            ListingKind = "rental"
	KindFoodEstablishment ListingKind = "foodestablishment"
)

// ListingKinds is the closed set of listing variants in a stable order.
var ListingKinds = []ListingKind{KindRental, KindFoodEstablishment}

// ParseListingKind accepts the stored form and the common spellings used by clients.
func ParseListingKind(s string) (ListingKind, bool) {
	switch s {
	case "rental", "rentals":
		return KindRental, true
	case "foodestablishment", "food_establishment", "food-establishment", "food_establishments", "food-establishments":
		return KindFoodEstablishment, true
	}
	return "", false
}

// TargetRef is a reference to one listing of either kind.
type TargetRef struct {
	Kind ListingKind `json:"target_kind"`
	ID   uint        `json:"target_id"`
}

// Building holds the columns shared by every listing variant.
type Building struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UserProfileID uint    `gorm:"column:user_profile_id;not null;index" json:"user_profile_id"`
	Name          string  `gorm:"column:name;size:255;not null;uniqueIndex" json:"name"`
	Description   string  `gorm:"column:description;type:text" json:"description"`
	Address       string  `gorm:"column:address;size:255" json:"address"`
	Latitude      float64 `gorm:"column:latitude;type:decimal(9,6);not null" json:"latitude"`
	Longitude     float64 `gorm:"column:longitude;type:decimal(9,6);not null" json:"longitude"`
	IsFeatured    bool    `gorm:"column:is_featured;not null;default:false;index" json:"is_featured"`
	MapIcon       *string `gorm:"column:map_icon" json:"map_icon"`
	ContactNumber *string `gorm:"column:contact_number;size:32" json:"contact_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Place returns the shared base record. Promoted to both variants.
func (b *Building) Place() *Building {
	return b
}

// Coordinates returns (longitude, latitude) in degrees.
func (b *Building) Coordinates() (float64, float64) {
	return b.Longitude, b.Latitude
}

type PropertyType string

const (
	PropertyApartment   PropertyType = "APARTMENT"
	PropertyDormitory   PropertyType = "DORMITORY"
	PropertyCondominium PropertyType = "CONDOMINIUM"
)

type PropertyCondition string

const (
	ConditionNew  PropertyCondition = "NEW"
	ConditionGood PropertyCondition = "GOOD"
	ConditionFair PropertyCondition = "FAIR"
	ConditionOld  PropertyCondition = "OLD"
)

type FurnitureCondition string

const (
	FurnitureNew  FurnitureCondition = "NEW"
	FurnitureGood FurnitureCondition = "GOOD"
	FurnitureUsed FurnitureCondition = "USED"
)

type LeaseTerm string

const (
	LeaseShortTerm    LeaseTerm = "SHORT_TERM"
	LeaseLongTerm     LeaseTerm = "LONG_TERM"
	LeaseMonthToMonth LeaseTerm = "MONTH_TO_MONTH"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyDormitory, PropertyCondominium:
		return true
	}
	return false
}

func (p PropertyCondition) Valid() bool {
	switch p {
	case ConditionNew, ConditionGood, ConditionFair, ConditionOld:
		return true
	}
	return false
}

func (f FurnitureCondition) Valid() bool {
	switch f {
	case FurnitureNew, FurnitureGood, FurnitureUsed:
		return true
	}
	return false
}

func (l LeaseTerm) Valid() bool {
	switch l {
	case LeaseShortTerm, LeaseLongTerm, LeaseMonthToMonth:
		return true
	}
	return false
}

// Rental is a listing offered for lease.
type Rental struct {
	Building

	NumBedrooms     int  `gorm:"column:num_bedrooms;not null;default:0" json:"num_bedrooms"`
	NumBathrooms    int  `gorm:"column:num_bathrooms;not null;default:0" json:"num_bathrooms"`
	Kitchen         bool `gorm:"column:kitchen;not null;default:false" json:"kitchen"`
	AirConditioning bool `gorm:"column:air_conditioning;not null;default:false" json:"air_conditioning"`
	Wifi            bool `gorm:"column:wifi;not null;default:false" json:"wifi"`
	PetsAllowed     bool `gorm:"column:pets_allowed;not null;default:false" json:"pets_allowed"`
	Refrigerator    bool `gorm:"column:refrigerator;not null;default:false" json:"refrigerator"`
	EmergencyExit   bool `gorm:"column:emergency_exit;not null;default:false" json:"emergency_exit"`

	PropertyType       PropertyType       `gorm:"column:property_type;size:20;not null;default:APARTMENT" json:"property_type"`
	PropertyCondition  PropertyCondition  `gorm:"column:property_condition;size:10;not null;default:GOOD" json:"property_condition"`
	FurnitureCondition FurnitureCondition `gorm:"column:furniture_condition;size:10;not null;default:GOOD" json:"furniture_condition"`
	LeaseTerm          LeaseTerm          `gorm:"column:lease_term;size:20;not null;default:LONG_TERM" json:"lease_term"`
	MonthlyRent        float64            `gorm:"column:monthly_rent;type:decimal(10,2);not null" json:"monthly_rent"`

	Categories []Category `gorm:"many2many:rental_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Photos     []Photo    `gorm:"polymorphic:Owner;polymorphicValue:rental" json:"photos"`
}

func (Rental) TableName() string {
	return "rentals"
}

// FoodEstablishment is a restaurant, eatery or cafe.
type FoodEstablishment struct {
	Building

	OpeningTime *datatypes.Time `gorm:"column:opening_time" json:"opening_time"`
	ClosingTime *datatypes.Time `gorm:"column:closing_time" json:"closing_time"`
	Is24Hours   bool            `gorm:"column:is_24_hours;not null;default:false" json:"is_24_hours"`

	Categories []Category `gorm:"many2many:food_establishment_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Photos     []Photo    `gorm:"polymorphic:Owner;polymorphicValue:foodestablishment" json:"photos"`
}

func (FoodEstablishment) TableName() string {
	return "food_establishments"
}

// MaxPhotosPerBuilding caps the photo collection of a single listing.
const MaxPhotosPerBuilding = 10

// Photo is an image URL attached to a listing of either kind.
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"column:owner_id;not null;index:idx_photo_owner,priority:2" json:"-"`
	OwnerType string    `gorm:"column:owner_type;size:32;not null;index:idx_photo_owner,priority:1" json:"-"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Photo) TableName() string {
	return "building_photos"
}
