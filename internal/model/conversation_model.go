package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientUserId uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionId    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	StartTime    time.Time `gorm:"autoCreateTime;index"`
	LastActive   time.Time `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationTurn struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserText       string         `gorm:"type:text"`
	AssistantText  datatypes.JSON `gorm:"type:jsonb"`
	RequestAt      time.Time      `gorm:"autoCreateTime;index"`
	ResponseAt     *time.Time
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
