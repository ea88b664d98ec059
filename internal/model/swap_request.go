package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwapRequest is a proposal to exchange the sender's offered skill for the receiver's.
type SwapRequest struct {
	ID              uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	SenderID        uuid.UUID  `json:"sender_id" gorm:"type:char(36);not null;index"`
	ReceiverID      uuid.UUID  `json:"receiver_id" gorm:"type:char(36);not null;index"`
	SenderSkillID   uuid.UUID  `json:"sender_skill_id" gorm:"type:char(36);not null"`
	ReceiverSkillID uuid.UUID  `json:"receiver_skill_id" gorm:"type:char(36);not null"`
	Message         string     `json:"message,omitempty" gorm:"type:text"`
	Status          SwapStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	// PendingPair is "sender:receiver" while pending and NULL afterwards; its
	// unique index allows one pending request per ordered pair.
	PendingPair *string   `json:"-" gorm:"size:80;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Constraint targets only; never preloaded.
	Sender        *User  `json:"-" gorm:"foreignKey:SenderID"`
	Receiver      *User  `json:"-" gorm:"foreignKey:ReceiverID"`
	SenderSkill   *Skill `json:"-" gorm:"foreignKey:SenderSkillID"`
	ReceiverSkill *Skill `json:"-" gorm:"foreignKey:ReceiverSkillID"`
}

// BeforeCreate sets UUID and the pending-pair key before creating the record.
func (s *SwapRequest) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SwapStatusPending
	}
	if s.Status == SwapStatusPending {
		key := PendingPairKey(s.SenderID, s.ReceiverID)
		s.PendingPair = &key
	} else {
		s.PendingPair = nil
	}
	return nil
}

// IsParticipant reports whether userID is the sender or the receiver.
func (s *SwapRequest) IsParticipant(userID uuid.UUID) bool {
	return s.SenderID == userID || s.ReceiverID == userID
}

// Counterpart returns the other participant, or uuid.Nil if userID is not one.
func (s *SwapRequest) Counterpart(userID uuid.UUID) uuid.UUID {
	switch userID {
	case s.SenderID:
		return s.ReceiverID
	case s.ReceiverID:
		return s.SenderID
	}
	return uuid.Nil
}

// PendingPairKey is the uniqueness key for a pending request from sender to receiver.
func PendingPairKey(senderID, receiverID uuid.UUID) string {
	return senderID.String() + ":" + receiverID.String()
}
