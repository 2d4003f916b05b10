package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"dairy-assistant-be/internal/constant"
	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/internal/repository/contract"
	"dairy-assistant-be/pkg/llm"
	"dairy-assistant-be/pkg/rag/memory"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Profile carries per-user presentation state. Greeted flips to true
// the first time a chat is opened with the user's name known, so the
// personal greeting is issued at most once per session.
type Profile struct {
	Name    string
	Greeted bool
}

// Session is the in-memory state of one active user.
type Session struct {
	SessionId    string
	Language     string
	Profile      Profile
	LastActivity time.Time
	Chat         llm.ChatSession
	Memory       *memory.Window
}

// Config tunes session lifetime and the chat model parameters baked
// into each session's chat handle.
type Config struct {
	TTL             time.Duration
	WindowTurns     int
	Temperature     float64
	MaxOutputTokens int
}

// Manager owns the TTL-bounded session map. All map access goes
// through one mutex; chat handles open lazily so the lock is never
// held across a network call.
type Manager struct {
	mu            sync.Mutex
	cache         *gocache.Cache
	cfg           Config
	provider      llm.Provider
	clientUsers   contract.ClientUserRepository
	conversations contract.ConversationRepository
	turnRepo      contract.ConversationTurnRepository
	logger        logger.ILogger
}

func NewManager(provider llm.Provider, clientUsers contract.ClientUserRepository, conversations contract.ConversationRepository, turnRepo contract.ConversationTurnRepository, log logger.ILogger, cfg Config) *Manager {
	if log == nil {
		log = logger.NopLogger{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 120 * time.Minute
	}
	if cfg.WindowTurns <= 0 {
		cfg.WindowTurns = 5
	}
	return &Manager{
		cache:         gocache.New(cfg.TTL, 0),
		cfg:           cfg,
		provider:      provider,
		clientUsers:   clientUsers,
		conversations: conversations,
		turnRepo:      turnRepo,
		logger:        log,
	}
}

// Purge drops sessions idle past the TTL. Called at the start of every
// request so expiry needs no background janitor.
func (m *Manager) Purge() {
	m.cache.DeleteExpired()
}

// ActiveCount reports how many sessions are currently live.
func (m *Manager) ActiveCount() int {
	return m.cache.ItemCount()
}

// Bootstrap returns the caller's session, creating it on first use.
// Idempotent per user: the session id, chat handle and memory window
// are created once and reused until the session expires. The durable
// rows are upserted outside the lock; a failing store is logged and
// the session proceeds without continuity.
func (m *Manager) Bootstrap(ctx context.Context, clientId int, userId int64, name string) *Session {
	if name == "" {
		name = fmt.Sprintf("User_%d", userId)
	}
	key := strconv.FormatInt(userId, 10)

	m.mu.Lock()
	var sess *Session
	if cached, found := m.cache.Get(key); found {
		sess = cached.(*Session)
	} else {
		sess = &Session{Language: "en"}
	}

	sess.LastActivity = time.Now()
	sess.Profile.Name = name

	if sess.SessionId == "" {
		sess.SessionId = uuid.NewString()
	}

	if sess.Chat == nil {
		sess.Memory = memory.NewWindow(sess.SessionId, m.cfg.WindowTurns, m.conversations, m.turnRepo, m.logger)

		systemText := m.greeting(&sess.Profile) + constant.SystemInstruction
		sess.Chat = m.provider.NewChat(systemText,
			llm.WithTemperature(m.cfg.Temperature),
			llm.WithMaxOutputTokens(m.cfg.MaxOutputTokens),
		)

		m.logger.Info("session", "session started", map[string]interface{}{
			"user_id":    userId,
			"session_id": sess.SessionId,
		})
	}

	m.cache.Set(key, sess, m.cfg.TTL)
	m.mu.Unlock()

	m.upsertDurableRows(ctx, sess, clientId, userId, name)
	return sess
}

// greeting is consumed once per session, when the chat opens.
func (m *Manager) greeting(profile *Profile) string {
	if !profile.Greeted && profile.Name != "" {
		profile.Greeted = true
		return fmt.Sprintf("Hello %s! ", profile.Name)
	}
	return ""
}

func (m *Manager) upsertDurableRows(ctx context.Context, sess *Session, clientId int, userId int64, name string) {
	clientUser, err := m.clientUsers.GetOrCreate(ctx, clientId, userId, name)
	if err != nil {
		m.logger.Error("session", "client user upsert failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return
	}

	sess.Memory.BindClientUser(clientUser.Id)

	if _, err := m.conversations.GetOrCreate(ctx, sess.SessionId, clientUser.Id); err != nil {
		m.logger.Error("session", "conversation upsert failed", map[string]interface{}{
			"user_id":    userId,
			"session_id": sess.SessionId,
			"error":      err.Error(),
		})
	}
}
