package bootstrap

import (
	"context"
	"log"
	"time"

	"dairy-assistant-be/internal/config"
	"dairy-assistant-be/internal/controller"
	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/internal/repository/implementation"
	"dairy-assistant-be/internal/service"
	"dairy-assistant-be/pkg/embedding"
	"dairy-assistant-be/pkg/knowledge"
	"dairy-assistant-be/pkg/llm/gemini"
	"dairy-assistant-be/pkg/rag/rewrite"
	"dairy-assistant-be/pkg/rag/session"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Exposed for shutdown flushing
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Repositories
	clientUserRepo := implementation.NewClientUserRepository(db)
	conversationRepo := implementation.NewConversationRepository(db)
	turnRepo := implementation.NewConversationTurnRepository(db)

	// 3. AI Providers
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
	llmProvider := gemini.NewProvider(cfg.Keys.GoogleGemini, cfg.Ai.ChatModel)
	log.Printf("[INFO] Using Gemini models: chat=%s embedding=%s", cfg.Ai.ChatModel, cfg.Ai.EmbeddingModel)

	// 4. Knowledge Index (built once at startup, in-process)
	index := knowledge.BuildIndex(context.Background(), embeddingProvider, sysLogger,
		knowledge.NewGuideSource(cfg.Knowledge.GuidePath, sysLogger),
		knowledge.NewManualSource(cfg.Knowledge.ManualPath),
	)
	log.Printf("[INFO] Knowledge index ready: %d chunks", index.Size())
	retriever := knowledge.NewRetriever(index, sysLogger)

	// 5. RAG Components
	sessions := session.NewManager(llmProvider, clientUserRepo, conversationRepo, turnRepo, sysLogger, session.Config{
		TTL:             time.Duration(cfg.App.SessionTTLMinutes) * time.Minute,
		WindowTurns:     cfg.Ai.MemoryWindowTurns,
		Temperature:     cfg.Ai.Temperature,
		MaxOutputTokens: cfg.Ai.MaxOutputTokens,
	})
	rewriter := rewrite.NewRewriter(llmProvider, sysLogger, cfg.Ai.RewriteTemp, cfg.Ai.RewriteMaxTokens)

	// 6. Services
	assistantService := service.NewAssistantService(
		sessions,
		retriever,
		rewriter,
		clientUserRepo,
		conversationRepo,
		turnRepo,
		sysLogger,
	)

	// 7. Controllers
	assistantController := controller.NewAssistantController(assistantService, cfg.App.AllowedClients)

	return &Container{
		AssistantController: assistantController,
		Logger:              sysLogger,
	}
}
