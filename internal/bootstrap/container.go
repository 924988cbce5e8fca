package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-salesbot-be/internal/config"
	"ai-salesbot-be/internal/constant"
	"ai-salesbot-be/internal/controller"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/pkg/messenger"
	"ai-salesbot-be/internal/repository/implementation"
	"ai-salesbot-be/internal/service"
	"ai-salesbot-be/pkg/embedding"
	embeddingOpenai "ai-salesbot-be/pkg/embedding/openai"
	"ai-salesbot-be/pkg/guard"
	"ai-salesbot-be/pkg/llm"
	llmOllama "ai-salesbot-be/pkg/llm/ollama"
	llmOpenai "ai-salesbot-be/pkg/llm/openai"
	"ai-salesbot-be/pkg/rag"
	"ai-salesbot-be/pkg/retry"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	GuardController   controller.IGuardController
	WebhookController controller.IWebhookController
	SessionController controller.ISessionController
	IngestController  controller.IIngestController

	// Background services (main.go runs these)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	retryCfg := retry.Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		CallTimeout:     time.Duration(cfg.Ai.CallTimeoutSec) * time.Second,
	}

	// Providers
	embeddingProvider := embedding.EmbeddingProvider(embeddingOpenai.NewOpenAIProvider(
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDim,
		retryCfg,
	))

	var llmProvider llm.LLMProvider
	if cfg.Ai.LLMProvider == "ollama" {
		llmProvider = llmOllama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		llmProvider = llmOpenai.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.AgentModel, retryCfg)
		log.Printf("[INFO] Using LLM Provider: OPENAI (%s)", cfg.Ai.AgentModel)
	}

	// Guard gate. Rule problems are fatal: running unguarded is worse than
	// not running.
	rules, err := config.LoadGuardRules(cfg.Guard.RulesFilePath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load guard rules: %v", err)
	}
	vectorCheck, err := guard.NewVectorCheck(
		context.Background(),
		embeddingProvider,
		rules.AllowedTopics,
		cfg.Guard.SimilarityThreshold,
		sysLogger,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize vector check: %v", err)
	}
	policyCheck := guard.NewPolicyCheck(llmProvider, constant.PolicySystemPrompt, cfg.Ai.PolicyModel, sysLogger)
	gate := guard.NewGate(vectorCheck, policyCheck, sysLogger)

	// Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	orderRepo := implementation.NewOrderRepository(db)
	sessionRepo := implementation.NewSessionRepository(
		db,
		cfg.Session.MaxTurns,
		time.Duration(cfg.Session.TTLHours*float64(time.Hour)),
	)

	// Retrieval
	refiner := rag.NewLLMRefiner(llmProvider, constant.RefinementSystemPrompt, cfg.Ai.AgentModel, sysLogger)
	searchEngine := rag.NewEngine(documentRepo, embeddingProvider, refiner, sysLogger)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Services
	memoryService := service.NewMemoryService(documentRepo, embeddingProvider, sysLogger)
	toolRegistry := service.NewToolRegistry(searchEngine, documentRepo, orderRepo, memoryService, sysLogger)
	chatService := service.NewChatService(
		sessionRepo,
		llmProvider,
		toolRegistry,
		cfg.Ai.AgentModel,
		cfg.Messenger.MaxImagesPerSend,
		sysLogger,
	)
	guardService := service.NewGuardService(gate, chatService, rules.RejectionMessage, sysLogger)

	ingestionService := service.NewIngestionService(
		pubSub,
		cfg.App.IngestTopicName,
		documentRepo,
		embeddingProvider,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IngestTopicName, ingestionService, sysLogger)

	sender := messenger.NewClient(
		cfg.Messenger.GraphAPIURL,
		cfg.Messenger.PageAccessToken,
		cfg.Messenger.AttachmentsFile,
		retryCfg,
		sysLogger,
	)
	webhookService := service.NewWebhookService(guardService, sender, sysLogger)

	return &Container{
		ChatController:    controller.NewChatController(chatService),
		GuardController:   controller.NewGuardController(guardService),
		WebhookController: controller.NewWebhookController(webhookService, cfg.Messenger.VerifyToken),
		SessionController: controller.NewSessionController(chatService),
		IngestController:  controller.NewIngestController(ingestionService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
