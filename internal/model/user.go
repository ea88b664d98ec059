package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a marketplace member. Users are never hard-deleted.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Location     string     `json:"location,omitempty" gorm:"size:255"`
	ProfilePhoto string     `json:"profile_photo,omitempty" gorm:"size:512"`
	Availability string     `json:"availability,omitempty" gorm:"size:100;index"`
	Visibility   Visibility `json:"visibility" gorm:"type:varchar(10);not null;index"`
	Role         Role       `json:"role" gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID and default variants before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Visibility == "" {
		u.Visibility = VisibilityPublic
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsPublic reports whether the profile is visible to other users.
func (u *User) IsPublic() bool {
	return u.Visibility == VisibilityPublic
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the identity other users may see.
type PublicUser struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	Availability string    `json:"availability,omitempty"`
}

// Public returns the user's public identity fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Location:     u.Location,
		ProfilePhoto: u.ProfilePhoto,
		Availability: u.Availability,
	}
}
