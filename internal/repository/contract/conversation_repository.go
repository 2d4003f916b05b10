package contract

import (
	"context"
	"time"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	GetOrCreate(ctx context.Context, sessionId string, clientUserId uuid.UUID) (*entity.Conversation, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ConversationTurnRepository interface {
	Create(ctx context.Context, turn *entity.ConversationTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error)
	// AnswerLatestUnanswered attaches the assistant reply to the newest
	// turn of the conversation that has no reply yet, stamping
	// response_at in the same write. When no such turn exists a new
	// turn carrying only the reply is created, so a reply is never lost.
	AnswerLatestUnanswered(ctx context.Context, conversationId uuid.UUID, assistantText string, at time.Time) error
}
