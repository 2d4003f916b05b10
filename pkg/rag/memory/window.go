package memory

import (
	"context"
	"sync"
	"time"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/internal/repository/contract"
	"dairy-assistant-be/internal/repository/specification"
	"dairy-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// Window is the durable sliding-window memory of one session. Reads
// return the last N turns rendered as alternating user/model messages;
// writes append the user text and its reply as one paired turn.
//
// The mutex serializes writes for the session, so a reply always lands
// on the turn that asked for it. Store failures are logged and
// swallowed; a broken store costs continuity, never the conversation.
type Window struct {
	sessionId     string
	turns         int
	conversations contract.ConversationRepository
	turnRepo      contract.ConversationTurnRepository
	logger        logger.ILogger

	mu           sync.Mutex
	clientUserId uuid.UUID
}

func NewWindow(sessionId string, turns int, conversations contract.ConversationRepository, turnRepo contract.ConversationTurnRepository, log logger.ILogger) *Window {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Window{
		sessionId:     sessionId,
		turns:         turns,
		conversations: conversations,
		turnRepo:      turnRepo,
		logger:        log,
	}
}

// BindClientUser attaches the owning client user once the store row is
// known. Until bound, writes only reach conversations that already
// exist.
func (w *Window) BindClientUser(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clientUserId = id
}

// Messages renders the retained window, oldest first. Any store error
// degrades to an empty history.
func (w *Window) Messages(ctx context.Context) []llm.Message {
	conv, err := w.conversations.FindOne(ctx, specification.BySessionID{SessionID: w.sessionId})
	if err != nil {
		w.logger.Error("memory", "history load failed", map[string]interface{}{
			"session_id": w.sessionId,
			"error":      err.Error(),
		})
		return nil
	}
	if conv == nil {
		return nil
	}

	turns, err := w.turnRepo.FindAll(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.OrderBy{Field: "request_at"},
	)
	if err != nil {
		w.logger.Error("memory", "history load failed", map[string]interface{}{
			"session_id": w.sessionId,
			"error":      err.Error(),
		})
		return nil
	}

	if len(turns) > w.turns {
		turns = turns[len(turns)-w.turns:]
	}

	var messages []llm.Message
	for _, turn := range turns {
		if turn.UserText != "" {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.UserText})
		}
		if turn.AssistantText != nil {
			messages = append(messages, llm.Message{Role: llm.RoleModel, Content: *turn.AssistantText})
		}
	}
	return messages
}

// AddTurn persists one question/answer pair: the user text goes in as a
// pending turn, the reply is attached to it, then the conversation's
// last_active is bumped.
func (w *Window) AddTurn(ctx context.Context, userText, assistantText string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	conversationId, ok := w.resolveConversation(ctx)
	if !ok {
		return
	}

	turn := &entity.ConversationTurn{
		ConversationId: conversationId,
		UserText:       userText,
		RequestAt:      time.Now(),
	}
	if err := w.turnRepo.Create(ctx, turn); err != nil {
		w.logger.Error("memory", "turn append failed", map[string]interface{}{
			"session_id": w.sessionId,
			"error":      err.Error(),
		})
		return
	}

	if err := w.turnRepo.AnswerLatestUnanswered(ctx, conversationId, assistantText, time.Now()); err != nil {
		w.logger.Error("memory", "reply persist failed", map[string]interface{}{
			"session_id": w.sessionId,
			"error":      err.Error(),
		})
	}

	if err := w.conversations.TouchLastActive(ctx, conversationId, time.Now()); err != nil {
		w.logger.Warn("memory", "last_active touch failed", map[string]interface{}{
			"session_id": w.sessionId,
			"error":      err.Error(),
		})
	}
}

func (w *Window) resolveConversation(ctx context.Context) (uuid.UUID, bool) {
	if w.clientUserId != uuid.Nil {
		conv, err := w.conversations.GetOrCreate(ctx, w.sessionId, w.clientUserId)
		if err != nil {
			w.logger.Error("memory", "conversation upsert failed", map[string]interface{}{
				"session_id": w.sessionId,
				"error":      err.Error(),
			})
			return uuid.Nil, false
		}
		return conv.Id, true
	}

	conv, err := w.conversations.FindOne(ctx, specification.BySessionID{SessionID: w.sessionId})
	if err != nil || conv == nil {
		w.logger.Warn("memory", "conversation not resolvable, skipping persistence", map[string]interface{}{
			"session_id": w.sessionId,
		})
		return uuid.Nil, false
	}
	return conv.Id, true
}
