package favorites

import (
	"context"
	"fmt"

	"villfinder-backend/internal/application/listings"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB       *gorm.DB
	Listings *listings.Service
}

// Toggle sets whether profileID has the listing favorited. Repeating either intent is a no-op.
func (s *Service) Toggle(ctx context.Context, profileID uint, ref domain.TargetRef, favorite bool) error {
	t, err := listings.TablesFor(ref.Kind)
	if err != nil {
		return err
	}
	if favorite {
		if err := s.Listings.RequireExists(ctx, ref); err != nil {
			return err
		}
	}

	db := s.DB.WithContext(ctx)
	if favorite {
		row := newFavorite(ref, profileID)
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	} else {
		err = db.Exec("DELETE FROM "+t.Favorite+" WHERE user_profile_id = ? AND "+t.FavoriteColumn+" = ?", profileID, ref.ID).Error
	}
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}
	metrics.FavoriteToggled(string(ref.Kind), favorite)
	log.Debug().Uint("profile_id", profileID).Str("kind", string(ref.Kind)).Uint("id", ref.ID).Bool("favorite", favorite).Msg("favorite toggled")
	return nil
}

func newFavorite(ref domain.TargetRef, profileID uint) interface{} {
	if ref.Kind == domain.KindRental {
		return &domain.RentalFavorite{UserProfileID: profileID, RentalID: ref.ID}
	}
	return &domain.FoodEstablishmentFavorite{UserProfileID: profileID, FoodEstablishmentID: ref.ID}
}

// Mine lists a profile's favorites with the listings attached, newest first.
type Mine struct {
	Rentals            []domain.Rental            `json:"rentals"`
	FoodEstablishments []domain.FoodEstablishment `json:"food_establishments"`
}

func (s *Service) ListMine(ctx context.Context, profileID uint) (*Mine, error) {
	db := s.DB.WithContext(ctx)
	var rf []domain.RentalFavorite
	if err := db.Where("user_profile_id = ?", profileID).Order("created_at DESC, id DESC").
		Preload("Rental").Find(&rf).Error; err != nil {
		return nil, err
	}
	var ff []domain.FoodEstablishmentFavorite
	if err := db.Where("user_profile_id = ?", profileID).Order("created_at DESC, id DESC").
		Preload("FoodEstablishment").Find(&ff).Error; err != nil {
		return nil, err
	}
	out := &Mine{Rentals: []domain.Rental{}, FoodEstablishments: []domain.FoodEstablishment{}}
	for _, f := range rf {
		if f.Rental != nil {
			out.Rentals = append(out.Rentals, *f.Rental)
		}
	}
	for _, f := range ff {
		if f.FoodEstablishment != nil {
			out.FoodEstablishments = append(out.FoodEstablishments, *f.FoodEstablishment)
		}
	}
	return out, nil
}

// FavoritedIDs returns the subset of ids the profile has favorited.
func (s *Service) FavoritedIDs(ctx context.Context, profileID uint, kind domain.ListingKind, ids []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if profileID == 0 || len(ids) == 0 {
		return out, nil
	}
	t, err := listings.TablesFor(kind)
	if err != nil {
		return nil, err
	}
	var found []uint
	err = s.DB.WithContext(ctx).Table(t.Favorite).
		Where("user_profile_id = ? AND "+t.FavoriteColumn+" IN ?", profileID, ids).
		Pluck(t.FavoriteColumn, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}
