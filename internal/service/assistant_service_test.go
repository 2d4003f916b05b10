package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dairy-assistant-be/internal/constant"
	"dairy-assistant-be/internal/dto"
	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/repository/specification"
	"dairy-assistant-be/pkg/knowledge"
	"dairy-assistant-be/pkg/llm"
	"dairy-assistant-be/pkg/rag/rewrite"
	"dairy-assistant-be/pkg/rag/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeChat struct {
	prompts []string
	reply   string
	err     error
}

func (c *fakeChat) Send(_ context.Context, text string) (string, error) {
	c.prompts = append(c.prompts, text)
	return c.reply, c.err
}

type fakeProvider struct {
	chat         *fakeChat
	rewriteReply string
	rewriteErr   error
}

func (p *fakeProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return p.rewriteReply, p.rewriteErr
}

func (p *fakeProvider) NewChat(string, ...llm.Option) llm.ChatSession {
	return p.chat
}

type fakeRetriever struct {
	chunks    []knowledge.Chunk
	lastQuery string
}

func (r *fakeRetriever) Retrieve(_ context.Context, query string, _ int) []knowledge.Chunk {
	r.lastQuery = query
	return r.chunks
}

type fakeClientUserRepo struct {
	users map[int64]*entity.ClientUser
}

func newFakeClientUserRepo() *fakeClientUserRepo {
	return &fakeClientUserRepo{users: map[int64]*entity.ClientUser{}}
}

func (r *fakeClientUserRepo) GetOrCreate(_ context.Context, clientId int, userId int64, name string) (*entity.ClientUser, error) {
	if user, ok := r.users[userId]; ok {
		return user, nil
	}
	user := &entity.ClientUser{Id: uuid.New(), ClientId: clientId, UserId: userId, Name: name}
	r.users[userId] = user
	return user, nil
}

func (r *fakeClientUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ClientUser, error) {
	var clientId *int
	var userId *int64
	for _, spec := range specs {
		if s, ok := spec.(specification.FilterBy); ok {
			switch s.Field {
			case "client_id":
				v := s.Value.(int)
				clientId = &v
			case "user_id":
				v := s.Value.(int64)
				userId = &v
			}
		}
	}
	for _, user := range r.users {
		if userId != nil && user.UserId != *userId {
			continue
		}
		if clientId != nil && user.ClientId != *clientId {
			continue
		}
		return user, nil
	}
	return nil, nil
}

type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[string]*entity.Conversation{}}
}

func (r *fakeConversationRepo) GetOrCreate(_ context.Context, sessionId string, clientUserId uuid.UUID) (*entity.Conversation, error) {
	if conv, ok := r.conversations[sessionId]; ok {
		return conv, nil
	}
	conv := &entity.Conversation{
		Id:           uuid.New(),
		ClientUserId: clientUserId,
		SessionId:    sessionId,
		StartTime:    time.Now(),
		LastActive:   time.Now(),
	}
	r.conversations[sessionId] = conv
	return conv, nil
}

func (r *fakeConversationRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			return r.conversations[s.SessionID], nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var clientUserId *uuid.UUID
	var from, until *time.Time
	desc := false
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByClientUserID:
			id := s.ClientUserID
			clientUserId = &id
		case specification.StartTimeFrom:
			v := s.From
			from = &v
		case specification.StartTimeUntil:
			v := s.Until
			until = &v
		case specification.OrderBy:
			desc = s.Desc
		}
	}

	var out []*entity.Conversation
	for _, conv := range r.conversations {
		if clientUserId != nil && conv.ClientUserId != *clientUserId {
			continue
		}
		if from != nil && conv.StartTime.Before(*from) {
			continue
		}
		if until != nil && conv.StartTime.After(*until) {
			continue
		}
		out = append(out, conv)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if desc {
			return out[a].StartTime.After(out[b].StartTime)
		}
		return out[a].StartTime.Before(out[b].StartTime)
	})
	return out, nil
}

func (r *fakeConversationRepo) TouchLastActive(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type fakeTurnRepo struct {
	turns []*entity.ConversationTurn
}

func (r *fakeTurnRepo) Create(_ context.Context, turn *entity.ConversationTurn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.RequestAt.IsZero() {
		turn.RequestAt = time.Now()
	}
	r.turns = append(r.turns, turn)
	return nil
}

func (r *fakeTurnRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error) {
	var convId uuid.UUID
	for _, spec := range specs {
		if s, ok := spec.(specification.ByConversationID); ok {
			convId = s.ConversationID
		}
	}
	var out []*entity.ConversationTurn
	for _, turn := range r.turns {
		if turn.ConversationId == convId {
			out = append(out, turn)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].RequestAt.Before(out[b].RequestAt)
	})
	return out, nil
}

func (r *fakeTurnRepo) AnswerLatestUnanswered(_ context.Context, conversationId uuid.UUID, assistantText string, at time.Time) error {
	for i := len(r.turns) - 1; i >= 0; i-- {
		turn := r.turns[i]
		if turn.ConversationId == conversationId && turn.AssistantText == nil {
			text := assistantText
			turn.AssistantText = &text
			turn.ResponseAt = &at
			return nil
		}
	}
	return nil
}

// --- harness ---

type harness struct {
	service   IAssistantService
	provider  *fakeProvider
	chat      *fakeChat
	retriever *fakeRetriever
	users     *fakeClientUserRepo
	convos    *fakeConversationRepo
	turns     *fakeTurnRepo
}

func newHarness(chat *fakeChat, chunks []knowledge.Chunk) *harness {
	provider := &fakeProvider{chat: chat}
	users := newFakeClientUserRepo()
	convos := newFakeConversationRepo()
	turns := &fakeTurnRepo{}
	retriever := &fakeRetriever{chunks: chunks}

	sessions := session.NewManager(provider, users, convos, turns, nil, session.Config{})
	rewriter := rewrite.NewRewriter(provider, nil, 0.1, 64)

	return &harness{
		service:   NewAssistantService(sessions, retriever, rewriter, users, convos, turns, nil),
		provider:  provider,
		chat:      chat,
		retriever: retriever,
		users:     users,
		convos:    convos,
		turns:     turns,
	}
}

func chatRequest(query string) *dto.ChatRequest {
	clientId := 1
	return &dto.ChatRequest{
		ClientId:       &clientId,
		ClientUserId:   42,
		ClientUserName: "Asha",
		Query:          query,
	}
}

// --- chat tests ---

func TestChatGreetingShortcutSkipsModel(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)

	res, err := h.service.Chat(context.Background(), chatRequest("  Hiii there  "))

	require.NoError(t, err)
	assert.JSONEq(t, constant.GreetingAnswer, string(res.Response))
	assert.Empty(t, h.chat.prompts)
	assert.Empty(t, h.turns.turns)
}

func TestChatThanksShortcutSkipsModel(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)

	res, err := h.service.Chat(context.Background(), chatRequest("thank you so much"))

	require.NoError(t, err)
	assert.JSONEq(t, constant.ThanksAnswer, string(res.Response))
	assert.Empty(t, h.chat.prompts)
}

func TestChatHappyPathNormalizesAndPersists(t *testing.T) {
	chat := &fakeChat{reply: "```json\n{\"responseType\": \"basic\", \"content\": {\"answer\": \"Tap start.\"}}\n```"}
	h := newHarness(chat, []knowledge.Chunk{
		{Text: "Shift instructions.", Metadata: map[string]string{}},
	})

	res, err := h.service.Chat(context.Background(), chatRequest("how do I start a shift?"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"responseType":"basic","content":{"answer":"Tap start."}}`, string(res.Response))
	assert.Equal(t, 1, res.Client)
	assert.Equal(t, int64(42), res.ClientUserId)

	require.Len(t, h.turns.turns, 1)
	turn := h.turns.turns[0]
	assert.Equal(t, "how do I start a shift?", turn.UserText)
	require.NotNil(t, turn.AssistantText)
	assert.JSONEq(t, `{"responseType":"basic","content":{"answer":"Tap start."}}`, *turn.AssistantText)
	require.NotNil(t, turn.ResponseAt)
}

func TestChatPromptCarriesContextAndYoutubeLink(t *testing.T) {
	chat := &fakeChat{reply: "{}"}
	h := newHarness(chat, []knowledge.Chunk{
		{Text: "Open the shift screen.", Metadata: map[string]string{
			knowledge.MetaYoutubeLink: "https://youtu.be/xyz",
		}},
	})

	_, err := h.service.Chat(context.Background(), chatRequest("how do I start a shift?"))

	require.NoError(t, err)
	require.Len(t, h.chat.prompts, 1)
	prompt := h.chat.prompts[0]
	assert.Contains(t, prompt, "**Retrieved Context**")
	assert.Contains(t, prompt, "Open the shift screen.")
	assert.Contains(t, prompt, "[Available YouTube Tutorial: https://youtu.be/xyz]")
	assert.Contains(t, prompt, "**Question**: how do I start a shift?")
}

func TestChatEmptyRetrievalUsesPlaceholder(t *testing.T) {
	chat := &fakeChat{reply: "{}"}
	h := newHarness(chat, nil)

	_, err := h.service.Chat(context.Background(), chatRequest("how do I start a shift?"))

	require.NoError(t, err)
	require.Len(t, h.chat.prompts, 1)
	assert.Contains(t, h.chat.prompts[0], constant.NoContextPlaceholder)
}

func TestChatRejectedInputFallsBack(t *testing.T) {
	chat := &fakeChat{err: llm.ErrRejected}
	h := newHarness(chat, nil)

	res, err := h.service.Chat(context.Background(), chatRequest("something odd"))

	require.NoError(t, err)
	assert.JSONEq(t, constant.RejectedAnswer, string(res.Response))
}

func TestChatUnavailableModelFallsBack(t *testing.T) {
	chat := &fakeChat{err: llm.ErrUnavailable}
	h := newHarness(chat, nil)

	res, err := h.service.Chat(context.Background(), chatRequest("how do I start a shift?"))

	require.NoError(t, err)
	assert.JSONEq(t, constant.UnavailableAnswer, string(res.Response))
}

func TestChatUnexpectedFailureFallsBack(t *testing.T) {
	chat := &fakeChat{err: errors.New("kaboom")}
	h := newHarness(chat, nil)

	res, err := h.service.Chat(context.Background(), chatRequest("how do I start a shift?"))

	require.NoError(t, err)
	assert.JSONEq(t, constant.UnexpectedAnswer, string(res.Response))
	// Even a failed answer is persisted so the history shows the attempt.
	require.Len(t, h.turns.turns, 1)
	require.NotNil(t, h.turns.turns[0].AssistantText)
}

func TestChatFollowUpIsRewrittenBeforeRetrieval(t *testing.T) {
	chat := &fakeChat{reply: "{}"}
	h := newHarness(chat, nil)

	// First turn builds the history the rewriter needs.
	_, err := h.service.Chat(context.Background(), chatRequest("what is mastitis?"))
	require.NoError(t, err)
	assert.Equal(t, "what is mastitis?", h.retriever.lastQuery)

	// With history present the rewriter consults the model, which
	// answers with a standalone question.
	h.provider.rewriteReply = "How do I treat mastitis?"

	_, err = h.service.Chat(context.Background(), chatRequest("how do I treat it?"))

	require.NoError(t, err)
	assert.Equal(t, "How do I treat mastitis?", h.retriever.lastQuery)
}

// --- history tests ---

func seedHistory(t *testing.T, h *harness, startTimes ...time.Time) *entity.ClientUser {
	t.Helper()
	user, err := h.users.GetOrCreate(context.Background(), 1, 42, "Asha")
	require.NoError(t, err)

	for _, start := range startTimes {
		conv := &entity.Conversation{
			Id:           uuid.New(),
			ClientUserId: user.Id,
			SessionId:    uuid.NewString(),
			StartTime:    start,
			LastActive:   start,
		}
		h.convos.conversations[conv.SessionId] = conv

		answer := `{"answer":"ok"}`
		at := start.Add(time.Minute)
		h.turns.turns = append(h.turns.turns, &entity.ConversationTurn{
			Id:             uuid.New(),
			ConversationId: conv.Id,
			UserText:       "question " + conv.SessionId[:8],
			AssistantText:  &answer,
			RequestAt:      start,
			ResponseAt:     &at,
		})
	}
	return user
}

func historyRequest(start, end string) *dto.HistoryRequest {
	clientId := 1
	userId := int64(42)
	return &dto.HistoryRequest{
		ClientId:     &clientId,
		ClientUserId: &userId,
		StartDate:    start,
		EndDate:      end,
	}
}

func TestHistoryReturnsConversationsNewestFirst(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)
	seedHistory(t, h,
		time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	)

	res, err := h.service.History(context.Background(), historyRequest("", ""))

	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ClientUserId)
	assert.Equal(t, "Asha", res.ClientUserName)
	require.Len(t, res.History, 2)
	assert.True(t, res.History[0].StartTime.After(res.History[1].StartTime))
	require.Len(t, res.History[0].Messages, 1)
	assert.JSONEq(t, `{"answer":"ok"}`, string(res.History[0].Messages[0].AssistantText))
}

func TestHistoryEndDateCoversWholeDay(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)
	seedHistory(t, h,
		time.Date(2026, 1, 5, 23, 30, 0, 0, time.UTC),
		time.Date(2026, 1, 6, 0, 30, 0, 0, time.UTC),
	)

	res, err := h.service.History(context.Background(), historyRequest("2026-01-05", "2026-01-05"))

	require.NoError(t, err)
	require.Len(t, res.History, 1)
	assert.Equal(t, 5, res.History[0].StartTime.Day())
}

func TestHistoryInvalidDateFormat(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)
	seedHistory(t, h, time.Now())

	_, err := h.service.History(context.Background(), historyRequest("05-01-2026", ""))

	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestHistoryUnknownClientUser(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)

	_, err := h.service.History(context.Background(), historyRequest("", ""))

	assert.ErrorIs(t, err, ErrClientUserNotFound)
}

func TestHistoryEmptyRangeReturnsEmptyList(t *testing.T) {
	h := newHarness(&fakeChat{}, nil)
	seedHistory(t, h, time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC))

	res, err := h.service.History(context.Background(), historyRequest("2026-02-01", "2026-02-28"))

	require.NoError(t, err)
	assert.NotNil(t, res.History)
	assert.Empty(t, res.History)
}
