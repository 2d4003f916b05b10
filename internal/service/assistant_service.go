package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"dairy-assistant-be/internal/constant"
	"dairy-assistant-be/internal/dto"
	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/internal/repository/contract"
	"dairy-assistant-be/internal/repository/specification"
	"dairy-assistant-be/pkg/knowledge"
	"dairy-assistant-be/pkg/llm"
	"dairy-assistant-be/pkg/rag/response"
	"dairy-assistant-be/pkg/rag/session"
)

var (
	ErrClientUserNotFound = errors.New("client user not found")
	ErrInvalidDateFormat  = errors.New("invalid date format")
)

var (
	greetingRe = regexp.MustCompile(constant.GreetingPattern)
	thanksRe   = regexp.MustCompile(constant.ThanksPattern)
)

const retrieveK = 4

const dateLayout = "2006-01-02"

type documentRetriever interface {
	Retrieve(ctx context.Context, query string, k int) []knowledge.Chunk
}

type queryRewriter interface {
	Rewrite(ctx context.Context, userInput string, history []llm.Message) string
}

type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, request *dto.HistoryRequest) (*dto.HistoryResponse, error)
}

type AssistantService struct {
	sessions    *session.Manager
	retriever   documentRetriever
	rewriter    queryRewriter
	clientUsers contract.ClientUserRepository
	convos      contract.ConversationRepository
	turnRepo    contract.ConversationTurnRepository
	logger      logger.ILogger
}

func NewAssistantService(
	sessions *session.Manager,
	retriever documentRetriever,
	rewriter queryRewriter,
	clientUsers contract.ClientUserRepository,
	convos contract.ConversationRepository,
	turnRepo contract.ConversationTurnRepository,
	log logger.ILogger,
) IAssistantService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &AssistantService{
		sessions:    sessions,
		retriever:   retriever,
		rewriter:    rewriter,
		clientUsers: clientUsers,
		convos:      convos,
		turnRepo:    turnRepo,
		logger:      log,
	}
}

// Chat runs the full answering pipeline for one user message. It never
// fails: any downstream breakage degrades to a fixed apology answer in
// the same JSON envelope a healthy reply would use.
func (s *AssistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	clientId := 0
	if request.ClientId != nil {
		clientId = *request.ClientId
	}

	s.sessions.Purge()
	sess := s.sessions.Bootstrap(ctx, clientId, request.ClientUserId, request.ClientUserName)

	normalized := strings.ToLower(strings.TrimSpace(request.Query))

	if greetingRe.MatchString(normalized) {
		return s.respond(clientId, request.ClientUserId, constant.GreetingAnswer), nil
	}
	if thanksRe.MatchString(normalized) {
		return s.respond(clientId, request.ClientUserId, constant.ThanksAnswer), nil
	}

	rewritten := s.rewriter.Rewrite(ctx, request.Query, sess.Memory.Messages(ctx))

	docs := s.retriever.Retrieve(ctx, rewritten, retrieveK)
	prompt := fmt.Sprintf(constant.ChatPromptFormat, buildContext(docs), rewritten)

	responseText := s.generate(ctx, sess, prompt)
	normalizedJSON := response.Normalize(responseText)

	sess.Memory.AddTurn(ctx, request.Query, normalizedJSON)

	return s.respond(clientId, request.ClientUserId, normalizedJSON), nil
}

func (s *AssistantService) generate(ctx context.Context, sess *session.Session, prompt string) string {
	reply, err := sess.Chat.Send(ctx, prompt)
	switch {
	case err == nil:
		return strings.TrimSpace(reply)
	case errors.Is(err, llm.ErrRejected):
		s.logger.Warn("assistant", "model rejected the input", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.RejectedAnswer
	case errors.Is(err, llm.ErrUnavailable):
		s.logger.Error("assistant", "model generation unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.UnavailableAnswer
	default:
		s.logger.Error("assistant", "unexpected generation failure", map[string]interface{}{
			"severity": "critical",
			"error":    err.Error(),
		})
		return constant.UnexpectedAnswer
	}
}

func (s *AssistantService) respond(clientId int, userId int64, answer string) *dto.ChatResponse {
	return &dto.ChatResponse{
		Response:     json.RawMessage(answer),
		Client:       clientId,
		ClientUserId: userId,
	}
}

func buildContext(docs []knowledge.Chunk) string {
	if len(docs) == 0 {
		return constant.NoContextPlaceholder
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		content := doc.Text
		if link, ok := doc.Metadata[knowledge.MetaYoutubeLink]; ok && link != "" {
			content += fmt.Sprintf(constant.YoutubeTutorialFormat, link)
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n\n")
}

// History returns every conversation of the client user, newest first,
// optionally bounded to conversations started inside the given date
// range. The end date is inclusive of its whole day.
func (s *AssistantService) History(ctx context.Context, request *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	var from, until *time.Time
	if request.StartDate != "" {
		t, err := time.Parse(dateLayout, request.StartDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		from = &t
	}
	if request.EndDate != "" {
		t, err := time.Parse(dateLayout, request.EndDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		t = t.Add(24*time.Hour - time.Second)
		until = &t
	}

	clientUser, err := s.clientUsers.FindOne(ctx,
		specification.Filter("client_id", *request.ClientId),
		specification.Filter("user_id", *request.ClientUserId),
	)
	if err != nil {
		return nil, err
	}
	if clientUser == nil {
		return nil, ErrClientUserNotFound
	}

	specs := []specification.Specification{
		specification.ByClientUserID{ClientUserID: clientUser.Id},
		specification.OrderBy{Field: "start_time", Desc: true},
	}
	if from != nil {
		specs = append(specs, specification.StartTimeFrom{From: *from})
	}
	if until != nil {
		specs = append(specs, specification.StartTimeUntil{Until: *until})
	}

	convos, err := s.convos.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	history := make([]dto.HistoryConversation, 0, len(convos))
	for _, convo := range convos {
		turns, err := s.turnRepo.FindAll(ctx,
			specification.ByConversationID{ConversationID: convo.Id},
			specification.OrderBy{Field: "request_at"},
		)
		if err != nil {
			return nil, err
		}

		messages := make([]dto.HistoryMessage, 0, len(turns))
		for _, turn := range turns {
			var assistantText json.RawMessage
			if turn.AssistantText != nil {
				assistantText = json.RawMessage(*turn.AssistantText)
			}
			messages = append(messages, dto.HistoryMessage{
				UserText:      turn.UserText,
				AssistantText: assistantText,
				RequestAt:     turn.RequestAt,
				ResponseAt:    turn.ResponseAt,
			})
		}

		history = append(history, dto.HistoryConversation{
			SessionId:  convo.SessionId,
			StartTime:  convo.StartTime,
			LastActive: convo.LastActive,
			Messages:   messages,
		})
	}

	return &dto.HistoryResponse{
		ClientUserId:   clientUser.UserId,
		ClientUserName: clientUser.Name,
		History:        history,
	}, nil
}
