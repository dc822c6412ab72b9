package domain

import "time"

// RentalFavorite exists while the profile has the rental favorited.
type RentalFavorite struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserProfileID uint      `gorm:"column:user_profile_id;not null;uniqueIndex:idx_rental_favorite,priority:1" json:"user_profile_id"`
	RentalID      uint      `gorm:"column:rental_id;not null;uniqueIndex:idx_rental_favorite,priority:2;index" json:"rental_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Rental *Rental `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"rental,omitempty"`
}

func (RentalFavorite) TableName() string {
	return "rental_favorites"
}

// FoodEstablishmentFavorite exists while the profile has the establishment favorited.
type FoodEstablishmentFavorite struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserProfileID       uint      `gorm:"column:user_profile_id;not null;uniqueIndex:idx_food_favorite,priority:1" json:"user_profile_id"`
	FoodEstablishmentID uint      `gorm:"column:food_establishment_id;not null;uniqueIndex:idx_food_favorite,priority:2;index" json:"food_establishment_id"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`

	FoodEstablishment *FoodEstablishment `gorm:"foreignKey:FoodEstablishmentID;constraint:OnDelete:CASCADE" json:"food_establishment,omitempty"`
}

func (FoodEstablishmentFavorite) TableName() string {
	return "food_establishment_favorites"
}
