package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/infrastructure/cache"
	"villfinder-backend/internal/pkg/apperrors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const forestCacheKey = "categories:forest"

// Mode selects how Closure expands a seed category.
type Mode string

const (
	ModeAncestors Mode = "ancestors"
	ModeFull      Mode = "full"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ModeFull, nil
	case "ancestors":
		return ModeAncestors, nil
	}
	return "", apperrors.Validation("mode", "mode must be one of ancestors, full")
}

type Service struct {
	DB    *gorm.DB
	Cache *cache.Local[*Forest]
}

// Forest loads every category in one query. The snapshot is cached when a cache is configured.
func (s *Service) Forest(ctx context.Context) (*Forest, error) {
	if f, ok := s.Cache.Get(ctx, forestCacheKey); ok && f != nil {
		return f, nil
	}
	var cats []domain.Category
	if err := s.DB.WithContext(ctx).Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	f := NewForest(cats)
	if err := s.Cache.Set(ctx, forestCacheKey, f); err != nil {
		log.Warn().Err(err).Msg("categories: cache set failed")
	}
	return f, nil
}

// Invalidate drops the cached forest.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, forestCacheKey); err != nil {
		log.Warn().Err(err).Msg("categories: cache delete failed")
	}
}

// AncestorChain resolves a single selector by walking parent links. Missing ids are a NotFoundError.
func (s *Service) AncestorChain(ctx context.Context, id uint) ([]domain.Category, error) {
	f, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return f.AncestorChain(id)
}

// FullClosure resolves a selector list to ancestors and descendants. Missing ids are skipped.
func (s *Service) FullClosure(ctx context.Context, ids []uint) ([]domain.Category, error) {
	f, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return f.FullClosure(ids), nil
}

// Closure expands a single existing category in the requested mode.
func (s *Service) Closure(ctx context.Context, id uint, mode Mode) ([]domain.Category, error) {
	f, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := f.Get(id); !ok {
		return nil, apperrors.NotFound("Category")
	}
	if mode == ModeAncestors {
		return f.AncestorChain(id)
	}
	return f.FullClosure([]uint{id}), nil
}

type ListInput struct {
	Name string
	// All includes subcategories. By default only roots are listed.
	All bool
	// Nested fills Subcategories on each returned root.
	Nested bool
}

func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Category, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Category{})
	if !in.All {
		q = q.Where("parent_id IS NULL")
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	var cats []domain.Category
	if err := q.Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if !in.Nested {
		return cats, nil
	}
	f, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if t, ok := f.Tree(cats[i].ID); ok {
			cats[i].Subcategories = t.Subcategories
		}
	}
	return cats, nil
}

type CreateInput struct {
	Name        string
	Description string
	ParentID    *uint
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	if in.ParentID != nil {
		var parent domain.Category
		if err := s.DB.WithContext(ctx).First(&parent, *in.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("Parent category")
			}
			return nil, err
		}
	}
	c := &domain.Category{Name: name, Description: in.Description, ParentID: in.ParentID}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.Invalidate(ctx)
	return c, nil
}
