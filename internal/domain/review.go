package domain

import "time"

// Review is at most one per (user profile, target kind, target id).
type Review struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserProfileID  uint        `gorm:"column:user_profile_id;not null;uniqueIndex:idx_review_author_target,priority:1" json:"user_profile_id"`
	TargetKind     ListingKind `gorm:"column:target_kind;size:32;not null;uniqueIndex:idx_review_author_target,priority:2;index:idx_review_target,priority:1" json:"target_kind"`
	TargetID       uint        `gorm:"column:target_id;not null;uniqueIndex:idx_review_author_target,priority:3;index:idx_review_target,priority:2" json:"target_id"`
	Stars          *int        `gorm:"column:stars" json:"stars"`
	Comment        *string     `gorm:"column:comment;type:text" json:"comment"`
	SentimentLabel *string     `gorm:"column:sentiment_label;size:16" json:"sentiment_label"`
	SentimentScore *float64    `gorm:"column:sentiment_score" json:"sentiment_score"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// Target returns the reviewed listing reference.
func (r *Review) Target() TargetRef {
	return TargetRef{Kind: r.TargetKind, ID: r.TargetID}
}
