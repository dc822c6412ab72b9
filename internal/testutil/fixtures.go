package testutil

import (
	"fmt"
	"testing"

	"villfinder-backend/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func SeedProfile(t *testing.T, db *gorm.DB, username string) *domain.UserProfile {
	t.Helper()
	p := &domain.UserProfile{Username: username, Email: username + "@example.com", FirstName: username}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedCategory(t *testing.T, db *gorm.DB, name string, parent *domain.Category) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// PlaceSeed describes a listing fixture. Zero coordinates default to central Manila.
type PlaceSeed struct {
	Owner       uint
	Name        string
	Description string
	Address     string
	Lat, Lon    float64
	Featured    bool
	Categories  []*domain.Category
}

func (p PlaceSeed) building() domain.Building {
	lat, lon := p.Lat, p.Lon
	if lat == 0 && lon == 0 {
		lat, lon = 14.5995, 120.9842
	}
	return domain.Building{
		UserProfileID: p.Owner,
		Name:          p.Name,
		Description:   p.Description,
		Address:       p.Address,
		Latitude:      lat,
		Longitude:     lon,
		IsFeatured:    p.Featured,
	}
}

func categories(cs []*domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, *c)
	}
	return out
}

func SeedRental(t *testing.T, db *gorm.DB, p PlaceSeed) *domain.Rental {
	t.Helper()
	r := &domain.Rental{
		Building:           p.building(),
		NumBedrooms:        1,
		NumBathrooms:       1,
		PropertyType:       domain.PropertyApartment,
		PropertyCondition:  domain.ConditionGood,
		FurnitureCondition: domain.FurnitureGood,
		LeaseTerm:          domain.LeaseLongTerm,
		MonthlyRent:        12000,
		Categories:         categories(p.Categories),
	}
	require.NoError(t, db.Create(r).Error, fmt.Sprintf("seed rental %q", p.Name))
	return r
}

func SeedFood(t *testing.T, db *gorm.DB, p PlaceSeed) *domain.FoodEstablishment {
	t.Helper()
	f := &domain.FoodEstablishment{
		Building:   p.building(),
		Is24Hours:  true,
		Categories: categories(p.Categories),
	}
	require.NoError(t, db.Create(f).Error, fmt.Sprintf("seed food establishment %q", p.Name))
	return f
}
