package domain

import "time"

// UserProfile owns listings and authors reviews and favorites.
type UserProfile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"column:username;size:150;not null;uniqueIndex" json:"username"`
	Email         string     `gorm:"column:email;size:255" json:"email"`
	FirstName     string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName      string     `gorm:"column:last_name;size:150" json:"last_name"`
	Birthdate     *time.Time `gorm:"column:birthdate;type:date" json:"birthdate"`
	ContactNumber *string    `gorm:"column:contact_number;size:32" json:"contact_number"`
	Photo         *string    `gorm:"column:photo" json:"photo"`
	ProfilePhoto  *string    `gorm:"column:profile_photo" json:"profile_photo"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&UserProfile{},
		&Category{},
		&Rental{},
		&FoodEstablishment{},
		&Photo{},
		&Review{},
		&RentalFavorite{},
		&FoodEstablishmentFavorite{},
	}
}
