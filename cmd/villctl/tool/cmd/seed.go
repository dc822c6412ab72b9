package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	catsvc "villfinder-backend/internal/application/categories"
	listsvc "villfinder-backend/internal/application/listings"
	profilesvc "villfinder-backend/internal/application/profiles"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/infrastructure/database"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	seedFile    string
	seedMigrate bool
)

// Fixtures is the seed file layout. Categories reference parents and listings reference owners
// and categories by key, so a parent must appear before its children.
type Fixtures struct {
	Profiles           []profilesvc.CreateInput `json:"profiles"`
	Categories         []CategoryFixture        `json:"categories"`
	Rentals            []RentalFixture          `json:"rentals"`
	FoodEstablishments []FoodFixture            `json:"food_establishments"`
}

type CategoryFixture struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      string `json:"parent"`
}

type BuildingFixture struct {
	Owner         string   `json:"owner"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	IsFeatured    bool     `json:"is_featured"`
	MapIcon       *string  `json:"map_icon"`
	ContactNumber *string  `json:"contact_number"`
	Categories    []string `json:"categories"`
}

type RentalFixture struct {
	BuildingFixture
	NumBedrooms        int     `json:"num_bedrooms"`
	NumBathrooms       int     `json:"num_bathrooms"`
	Kitchen            bool    `json:"kitchen"`
	AirConditioning    bool    `json:"air_conditioning"`
	Wifi               bool    `json:"wifi"`
	PetsAllowed        bool    `json:"pets_allowed"`
	Refrigerator       bool    `json:"refrigerator"`
	EmergencyExit      bool    `json:"emergency_exit"`
	PropertyType       string  `json:"property_type"`
	PropertyCondition  string  `json:"property_condition"`
	FurnitureCondition string  `json:"furniture_condition"`
	LeaseTerm          string  `json:"lease_term"`
	MonthlyRent        float64 `json:"monthly_rent"`
}

type FoodFixture struct {
	BuildingFixture
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	Is24Hours   bool   `json:"is_24_hours"`
}

// SeedSummary counts the rows created by Seed.
type SeedSummary struct {
	Profiles, Categories, Rentals, FoodEstablishments int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load profiles, categories and listings from a JSON fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(seedFile)
		if err != nil {
			return err
		}
		var fx Fixtures
		if err := json.Unmarshal(b, &fx); err != nil {
			return fmt.Errorf("decode %s: %w", seedFile, err)
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		if seedMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
		}
		sum, err := Seed(cmd.Context(), db, fx)
		if err != nil {
			return err
		}
		color.Green("seeded %d profiles, %d categories, %d rentals, %d food establishments",
			sum.Profiles, sum.Categories, sum.Rentals, sum.FoodEstablishments)
		return nil
	},
}

// Seed inserts fx through the application services so every row passes the same validation as
// the API. It stops at the first invalid fixture.
func Seed(ctx context.Context, db *gorm.DB, fx Fixtures) (SeedSummary, error) {
	var sum SeedSummary
	profiles := &profilesvc.Service{DB: db}
	categories := &catsvc.Service{DB: db}
	listings := &listsvc.Service{DB: db}

	owners := map[string]uint{}
	for _, p := range fx.Profiles {
		created, err := profiles.Create(ctx, p)
		if err != nil {
			return sum, fmt.Errorf("profile %q: %w", p.Username, err)
		}
		owners[created.Username] = created.ID
		sum.Profiles++
	}

	cats := map[string]uint{}
	for _, c := range fx.Categories {
		in := catsvc.CreateInput{Name: c.Name, Description: c.Description}
		if c.Parent != "" {
			id, ok := cats[c.Parent]
			if !ok {
				return sum, fmt.Errorf("category %q: unknown parent %q", c.Key, c.Parent)
			}
			in.ParentID = &id
		}
		created, err := categories.Create(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("category %q: %w", c.Key, err)
		}
		key := c.Key
		if key == "" {
			key = c.Name
		}
		cats[key] = created.ID
		sum.Categories++
	}

	for _, r := range fx.Rentals {
		b, err := r.building(owners, cats)
		if err != nil {
			return sum, err
		}
		_, err = listings.CreateRental(ctx, listsvc.CreateRentalInput{
			BuildingInput:      b,
			NumBedrooms:        r.NumBedrooms,
			NumBathrooms:       r.NumBathrooms,
			Kitchen:            r.Kitchen,
			AirConditioning:    r.AirConditioning,
			Wifi:               r.Wifi,
			PetsAllowed:        r.PetsAllowed,
			Refrigerator:       r.Refrigerator,
			EmergencyExit:      r.EmergencyExit,
			PropertyType:       domain.PropertyType(strings.ToUpper(r.PropertyType)),
			PropertyCondition:  domain.PropertyCondition(strings.ToUpper(r.PropertyCondition)),
			FurnitureCondition: domain.FurnitureCondition(strings.ToUpper(r.FurnitureCondition)),
			LeaseTerm:          domain.LeaseTerm(strings.ToUpper(r.LeaseTerm)),
			MonthlyRent:        r.MonthlyRent,
		})
		if err != nil {
			return sum, fmt.Errorf("rental %q: %w", r.Name, err)
		}
		sum.Rentals++
	}

	for _, f := range fx.FoodEstablishments {
		b, err := f.building(owners, cats)
		if err != nil {
			return sum, err
		}
		opening, err := clock(f.OpeningTime)
		if err != nil {
			return sum, fmt.Errorf("food establishment %q: opening_time: %w", f.Name, err)
		}
		closing, err := clock(f.ClosingTime)
		if err != nil {
			return sum, fmt.Errorf("food establishment %q: closing_time: %w", f.Name, err)
		}
		_, err = listings.CreateFoodEstablishment(ctx, listsvc.CreateFoodEstablishmentInput{
			BuildingInput: b,
			OpeningTime:   opening,
			ClosingTime:   closing,
			Is24Hours:     f.Is24Hours,
		})
		if err != nil {
			return sum, fmt.Errorf("food establishment %q: %w", f.Name, err)
		}
		sum.FoodEstablishments++
	}

	log.Info().Int("profiles", sum.Profiles).Int("categories", sum.Categories).
		Int("rentals", sum.Rentals).Int("food_establishments", sum.FoodEstablishments).Msg("seed complete")
	return sum, nil
}

func (b BuildingFixture) building(owners, cats map[string]uint) (listsvc.BuildingInput, error) {
	owner, ok := owners[b.Owner]
	if !ok {
		return listsvc.BuildingInput{}, fmt.Errorf("listing %q: unknown owner %q", b.Name, b.Owner)
	}
	in := listsvc.BuildingInput{
		OwnerID:       owner,
		Name:          b.Name,
		Description:   b.Description,
		Address:       b.Address,
		Latitude:      b.Latitude,
		Longitude:     b.Longitude,
		IsFeatured:    b.IsFeatured,
		MapIcon:       b.MapIcon,
		ContactNumber: b.ContactNumber,
	}
	for _, key := range b.Categories {
		id, ok := cats[key]
		if !ok {
			return in, fmt.Errorf("listing %q: unknown category %q", b.Name, key)
		}
		in.CategoryIDs = append(in.CategoryIDs, id)
	}
	return in, nil
}

// clock parses "15:04" or "15:04:05". Empty input is nil.
func clock(s string) (*datatypes.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			v := datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
			return &v, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "fixtures.json", "fixture file")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "run migrations before seeding")
	rootCmd.AddCommand(seedCmd)
}
