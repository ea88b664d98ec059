package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a post-swap rating. It is immutable once created.
type Feedback struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	SwapID     uuid.UUID `json:"swap_id" gorm:"type:char(36);not null;uniqueIndex:idx_feedback_swap_rater"`
	FromUserID uuid.UUID `json:"from_user_id" gorm:"type:char(36);not null;uniqueIndex:idx_feedback_swap_rater;index"`
	ToUserID   uuid.UUID `json:"to_user_id" gorm:"type:char(36);not null;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Text       string    `json:"feedback_text,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Constraint targets only; never preloaded.
	Swap     *SwapRequest `json:"-" gorm:"foreignKey:SwapID"`
	FromUser *User        `json:"-" gorm:"foreignKey:FromUserID"`
	ToUser   *User        `json:"-" gorm:"foreignKey:ToUserID"`
}

// TableName overrides the pluralized default.
func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate sets UUID before creating the record.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is within the accepted rating range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
