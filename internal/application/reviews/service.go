package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"villfinder-backend/internal/application/listings"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/infrastructure/cache"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/metrics"
	"villfinder-backend/internal/pkg/pagination"
	"villfinder-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize         = 5
	defaultCommentMaxLength = 1000
	defaultCountTTL         = time.Hour
)

type Service struct {
	DB       *gorm.DB
	Listings *listings.Service
	Scorer   Scorer
	Counts   *cache.Redis

	CountTTL         time.Duration
	PageSize         int
	CommentMaxLength int
}

// UpsertInput is one review submission. Stars and Comment are optional but not both.
type UpsertInput struct {
	ProfileID  uint
	TargetKind string
	TargetID   uint
	Stars      *int
	Comment    *string
}

func (s *Service) scorer() Scorer {
	if s.Scorer != nil {
		return s.Scorer
	}
	return NewVaderScorer()
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return defaultPageSize
}

func countKey(ref domain.TargetRef) string {
	return fmt.Sprintf("reviews:count:%s:%d", ref.Kind, ref.ID)
}

// ParseTarget validates a raw target kind and id pair.
func ParseTarget(kind string, id uint) (domain.TargetRef, error) {
	k, ok := domain.ParseListingKind(strings.ToLower(strings.TrimSpace(kind)))
	if !ok {
		return domain.TargetRef{}, apperrors.Validation("target_kind", "target_kind must be one of rental, foodestablishment")
	}
	if id == 0 {
		return domain.TargetRef{}, apperrors.Validation("target_id", "target_id is required")
	}
	return domain.TargetRef{Kind: k, ID: id}, nil
}

func (s *Service) validate(in UpsertInput) (domain.TargetRef, *string, error) {
	ref, err := ParseTarget(in.TargetKind, in.TargetID)
	if err != nil {
		return ref, nil, err
	}
	if in.Stars != nil && (*in.Stars < 1 || *in.Stars > 5) {
		return ref, nil, apperrors.Validation("stars", "stars must be between 1 and 5")
	}
	var comment *string
	if in.Comment != nil {
		if c := strings.TrimSpace(*in.Comment); c != "" {
			comment = &c
		}
	}
	if in.Stars == nil && comment == nil {
		return ref, nil, apperrors.Validation("stars", "a review needs stars or a comment")
	}
	limit := s.CommentMaxLength
	if limit <= 0 {
		limit = defaultCommentMaxLength
	}
	if comment != nil {
		if err := validation.MaxLength("comment", *comment, limit); err != nil {
			return ref, nil, err
		}
	}
	return ref, comment, nil
}

// Upsert creates the caller's review of a listing or updates it in place.
// The returned flag reports whether a new row was inserted.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*domain.Review, bool, error) {
	ref, comment, err := s.validate(in)
	if err != nil {
		return nil, false, err
	}
	if err := s.Listings.RequireExists(ctx, ref); err != nil {
		return nil, false, err
	}

	row := domain.Review{
		UserProfileID: in.ProfileID,
		TargetKind:    ref.Kind,
		TargetID:      ref.ID,
		Stars:         in.Stars,
	}
	updates := []string{"updated_at"}
	if in.Stars != nil {
		updates = append(updates, "stars")
	}
	if comment != nil {
		label, score := Analyze(s.scorer(), *comment)
		row.Comment = comment
		row.SentimentLabel = &label
		row.SentimentScore = &score
		updates = append(updates, "comment", "sentiment_label", "sentiment_score")
	}

	var created bool
	var saved domain.Review
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&domain.Review{}).
			Where("user_profile_id = ? AND target_kind = ? AND target_id = ?", in.ProfileID, ref.Kind, ref.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_profile_id"}, {Name: "target_kind"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}
		return tx.Where("user_profile_id = ? AND target_kind = ? AND target_id = ?", in.ProfileID, ref.Kind, ref.ID).
			First(&saved).Error
	})
	if err != nil {
		return nil, false, err
	}
	s.ForgetTarget(ctx, ref)

	label := ""
	if saved.SentimentLabel != nil {
		label = *saved.SentimentLabel
	}
	metrics.ReviewUpserted(label, created)
	log.Info().Uint("profile_id", in.ProfileID).Str("target_kind", string(ref.Kind)).Uint("target_id", ref.ID).
		Bool("created", created).Msg("review saved")
	return &saved, created, nil
}

// ForgetTarget drops the cached review count of ref.
func (s *Service) ForgetTarget(ctx context.Context, ref domain.TargetRef) {
	if err := s.Counts.Delete(ctx, countKey(ref)); err != nil {
		log.Warn().Err(err).Str("key", countKey(ref)).Msg("reviews: count cache delete failed")
	}
}

func (s *Service) HasReviewed(ctx context.Context, profileID uint, ref domain.TargetRef) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("user_profile_id = ? AND target_kind = ? AND target_id = ?", profileID, ref.Kind, ref.ID).
		Count(&n).Error
	return n > 0, err
}

// CountReviews returns the number of reviews of a listing, served from redis when cached.
func (s *Service) CountReviews(ctx context.Context, ref domain.TargetRef) (int64, error) {
	var n int64
	key := countKey(ref)
	if err := s.Counts.Get(ctx, key, &n); err == nil {
		return n, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("reviews: count cache read failed")
	}
	if err := s.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).Count(&n).Error; err != nil {
		return 0, err
	}
	ttl := s.CountTTL
	if ttl <= 0 {
		ttl = defaultCountTTL
	}
	if err := s.Counts.Set(ctx, key, n, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reviews: count cache write failed")
	}
	return n, nil
}

// GetReview returns the profile's review of a listing, or nil when there is none.
func (s *Service) GetReview(ctx context.Context, profileID uint, ref domain.TargetRef) (*domain.Review, error) {
	var r domain.Review
	err := s.DB.WithContext(ctx).
		Where("user_profile_id = ? AND target_kind = ? AND target_id = ?", profileID, ref.Kind, ref.ID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountsByTargets counts reviews for many listings of one kind in a single query.
func (s *Service) CountsByTargets(ctx context.Context, kind domain.ListingKind, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		TargetID uint
		N        int64
	}
	err := s.DB.WithContext(ctx).Model(&domain.Review{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TargetID] = r.N
	}
	return out, nil
}

// ByAuthorForTargets returns the profile's reviews of the given listings keyed by target id.
func (s *Service) ByAuthorForTargets(ctx context.Context, profileID uint, kind domain.ListingKind, ids []uint) (map[uint]*domain.Review, error) {
	out := make(map[uint]*domain.Review)
	if len(ids) == 0 || profileID == 0 {
		return out, nil
	}
	var rows []domain.Review
	err := s.DB.WithContext(ctx).
		Where("user_profile_id = ? AND target_kind = ? AND target_id IN ?", profileID, kind, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].TargetID] = &rows[i]
	}
	return out, nil
}

// ListByTarget pages through a listing's reviews, newest first.
func (s *Service) ListByTarget(ctx context.Context, ref domain.TargetRef, page int) (pagination.Page[domain.Review], error) {
	if err := s.Listings.RequireExists(ctx, ref); err != nil {
		return pagination.Page[domain.Review]{}, err
	}
	return s.list(ctx, s.DB.WithContext(ctx).Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID), page)
}

// ListMine pages through the reviews written by a profile, newest first.
func (s *Service) ListMine(ctx context.Context, profileID uint, page int) (pagination.Page[domain.Review], error) {
	return s.list(ctx, s.DB.WithContext(ctx).Where("user_profile_id = ?", profileID), page)
}

func (s *Service) list(ctx context.Context, scope *gorm.DB, page int) (pagination.Page[domain.Review], error) {
	size := s.pageSize()
	var total int64
	if err := scope.Session(&gorm.Session{}).Model(&domain.Review{}).Count(&total).Error; err != nil {
		return pagination.Page[domain.Review]{}, err
	}
	start, end := pagination.Window(int(total), page, size)
	var rows []domain.Review
	if end > start {
		if err := scope.Session(&gorm.Session{}).Order("created_at DESC, id DESC").
			Offset(start).Limit(end - start).Find(&rows).Error; err != nil {
			return pagination.Page[domain.Review]{}, err
		}
	}
	return pagination.Build(rows, int(total), page, size), nil
}

// Summary aggregates the star ratings of a listing.
type Summary struct {
	Target  domain.TargetRef `json:"target"`
	Count   int64            `json:"count"`
	Rated   int64            `json:"rated"`
	Average *float64         `json:"average"`
	Label   *string          `json:"label"`
}

func (s *Service) Summary(ctx context.Context, ref domain.TargetRef) (*Summary, error) {
	if err := s.Listings.RequireExists(ctx, ref); err != nil {
		return nil, err
	}
	count, err := s.CountReviews(ctx, ref)
	if err != nil {
		return nil, err
	}
	var agg struct {
		Rated int64
		Avg   *float64
	}
	err = s.DB.WithContext(ctx).Model(&domain.Review{}).
		Select("COUNT(stars) AS rated, AVG(stars) AS avg").
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	out := &Summary{Target: ref, Count: count, Rated: agg.Rated}
	if agg.Rated > 0 && agg.Avg != nil {
		avg := *agg.Avg
		label, err := LabelForScore(avg)
		if err != nil {
			return nil, err
		}
		out.Average = &avg
		out.Label = &label
	}
	return out, nil
}

// Delete removes a review. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, reviewID, requester uint) error {
	var r domain.Review
	if err := s.DB.WithContext(ctx).First(&r, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Review")
		}
		return err
	}
	if r.UserProfileID != requester {
		return apperrors.Permission("You can only delete your own reviews")
	}
	if err := s.DB.WithContext(ctx).Delete(&domain.Review{}, r.ID).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	s.ForgetTarget(ctx, r.Target())
	return nil
}
