package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups the turns of one chat session.
type Conversation struct {
	Id           uuid.UUID
	ClientUserId uuid.UUID
	SessionId    string
	StartTime    time.Time
	LastActive   time.Time
}

// ConversationTurn pairs one user message with its assistant reply.
// AssistantText holds the normalized response JSON and stays nil until
// the reply arrives; ResponseAt is set in the same write, exactly once.
type ConversationTurn struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserText       string
	AssistantText  *string
	RequestAt      time.Time
	ResponseAt     *time.Time
}
