package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is a canonical catalog entry. Skills are immutable once created.
type Skill struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UserSkill tags a skill as offered or wanted by a user.
// The (user, skill, direction) triple is its whole identity.
type UserSkill struct {
	UserID    uuid.UUID      `json:"user_id" gorm:"type:char(36);primaryKey"`
	SkillID   uuid.UUID      `json:"skill_id" gorm:"type:char(36);primaryKey;index"`
	Direction SkillDirection `json:"direction" gorm:"type:varchar(10);primaryKey"`
	CreatedAt time.Time      `json:"created_at"`

	// Constraint targets only; never preloaded.
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skill *Skill `json:"-" gorm:"foreignKey:SkillID;constraint:OnDelete:RESTRICT"`
}

// SkillRef is a skill id and name pair.
type SkillRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserSkillName is a flattened user skill row used for batched lookups.
type UserSkillName struct {
	UserID    uuid.UUID
	SkillID   uuid.UUID
	Direction SkillDirection
	Name      string
}
