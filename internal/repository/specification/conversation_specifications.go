package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByClientUserID filters conversations by owning client user
type ByClientUserID struct {
	ClientUserID uuid.UUID
}

func (s ByClientUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_user_id = ?", s.ClientUserID)
}

// BySessionID filters by the opaque session identifier
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByConversationID filters turns by conversation
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// StartTimeFrom keeps conversations started at or after the instant
type StartTimeFrom struct {
	From time.Time
}

func (s StartTimeFrom) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time >= ?", s.From)
}

// StartTimeUntil keeps conversations started at or before the instant
type StartTimeUntil struct {
	Until time.Time
}

func (s StartTimeUntil) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time <= ?", s.Until)
}

// Unanswered keeps turns still waiting for an assistant reply
type Unanswered struct{}

func (s Unanswered) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("assistant_text IS NULL")
}
