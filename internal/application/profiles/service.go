package profiles

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Profile")
		}
		return nil, err
	}
	return &p, nil
}

type CreateInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Create registers a profile. Usernames are unique and emails are stored lower case.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.UserProfile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperrors.Validation("username", "Username is required")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.Validation("email", "Invalid email format")
		}
	}

	p := &domain.UserProfile{
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.UserProfile{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Validation("username", "Username already taken")
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
