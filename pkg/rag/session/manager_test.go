package session

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/repository/specification"
	"dairy-assistant-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	systemInstructions []string
	chats              []*fakeChat
}

func (p *fakeProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return "", nil
}

func (p *fakeProvider) NewChat(systemInstruction string, _ ...llm.Option) llm.ChatSession {
	p.systemInstructions = append(p.systemInstructions, systemInstruction)
	chat := &fakeChat{reply: "{}"}
	p.chats = append(p.chats, chat)
	return chat
}

type fakeClientUserRepo struct {
	users map[int64]*entity.ClientUser
	err   error
}

func newFakeClientUserRepo() *fakeClientUserRepo {
	return &fakeClientUserRepo{users: map[int64]*entity.ClientUser{}}
}

func (r *fakeClientUserRepo) GetOrCreate(_ context.Context, clientId int, userId int64, name string) (*entity.ClientUser, error) {
	if r.err != nil {
		return nil, r.err
	}
	if user, ok := r.users[userId]; ok {
		return user, nil
	}
	user := &entity.ClientUser{Id: uuid.New(), ClientId: clientId, UserId: userId, Name: name}
	r.users[userId] = user
	return user, nil
}

func (r *fakeClientUserRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ClientUser, error) {
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

func (r *fakeConversationRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, conv := range r.conversations {
		out = append(out, conv)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].StartTime.After(out[b].StartTime)
	})
	return out, nil
}

func (r *fakeConversationRepo) TouchLastActive(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type fakeTurnRepo struct{}

func (fakeTurnRepo) Create(_ context.Context, _ *entity.ConversationTurn) error { return nil }
func (fakeTurnRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ConversationTurn, error) {
	return nil, nil
}
func (fakeTurnRepo) AnswerLatestUnanswered(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func newTestManager(provider *fakeProvider, users *fakeClientUserRepo, convos *fakeConversationRepo, cfg Config) *Manager {
	return NewManager(provider, users, convos, fakeTurnRepo{}, nil, cfg)
}

func TestBootstrapIsIdempotentPerUser(t *testing.T) {
	provider := &fakeProvider{}
	manager := newTestManager(provider, newFakeClientUserRepo(), newFakeConversationRepo(), Config{})

	first := manager.Bootstrap(context.Background(), 1, 42, "Asha")
	second := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Same(t, first.Chat, second.Chat)
	assert.Same(t, first.Memory, second.Memory)
	assert.Len(t, provider.systemInstructions, 1)
}

func TestBootstrapGreetsOnceWithName(t *testing.T) {
	provider := &fakeProvider{}
	manager := newTestManager(provider, newFakeClientUserRepo(), newFakeConversationRepo(), Config{})

	sess := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	require.Len(t, provider.systemInstructions, 1)
	assert.Contains(t, provider.systemInstructions[0], "Hello Asha! ")
	assert.True(t, sess.Profile.Greeted)
}

func TestBootstrapDefaultsMissingName(t *testing.T) {
	provider := &fakeProvider{}
	manager := newTestManager(provider, newFakeClientUserRepo(), newFakeConversationRepo(), Config{})

	sess := manager.Bootstrap(context.Background(), 1, 42, "")

	assert.Equal(t, "User_42", sess.Profile.Name)
	assert.Contains(t, provider.systemInstructions[0], "Hello User_42! ")
}

func TestBootstrapDefaultsLanguage(t *testing.T) {
	manager := newTestManager(&fakeProvider{}, newFakeClientUserRepo(), newFakeConversationRepo(), Config{})

	sess := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	assert.Equal(t, "en", sess.Language)
}

func TestBootstrapUpsertsDurableRows(t *testing.T) {
	users := newFakeClientUserRepo()
	convos := newFakeConversationRepo()
	manager := newTestManager(&fakeProvider{}, users, convos, Config{})

	sess := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	require.Contains(t, users.users, int64(42))
	assert.Contains(t, convos.conversations, sess.SessionId)
}

func TestBootstrapToleratesStoreFailure(t *testing.T) {
	users := newFakeClientUserRepo()
	users.err = errors.New("db down")
	manager := newTestManager(&fakeProvider{}, users, newFakeConversationRepo(), Config{})

	sess := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	require.NotNil(t, sess)
	assert.NotNil(t, sess.Chat)
	assert.NotNil(t, sess.Memory)
	assert.NotEmpty(t, sess.SessionId)
}

func TestPurgeDropsExpiredSessions(t *testing.T) {
	manager := newTestManager(&fakeProvider{}, newFakeClientUserRepo(), newFakeConversationRepo(), Config{
		TTL: 10 * time.Millisecond,
	})

	manager.Bootstrap(context.Background(), 1, 42, "Asha")
	require.Equal(t, 1, manager.ActiveCount())

	time.Sleep(25 * time.Millisecond)
	manager.Purge()

	assert.Equal(t, 0, manager.ActiveCount())
}

func TestExpiredSessionGetsFreshIdentity(t *testing.T) {
	provider := &fakeProvider{}
	manager := newTestManager(provider, newFakeClientUserRepo(), newFakeConversationRepo(), Config{
		TTL: 10 * time.Millisecond,
	})

	first := manager.Bootstrap(context.Background(), 1, 42, "Asha")
	time.Sleep(25 * time.Millisecond)
	manager.Purge()
	second := manager.Bootstrap(context.Background(), 1, 42, "Asha")

	assert.NotEqual(t, first.SessionId, second.SessionId)
	assert.Len(t, provider.systemInstructions, 2)
}
