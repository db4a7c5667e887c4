package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-support-chatbot-be/internal/config"
	"ai-support-chatbot-be/internal/controller"
	"ai-support-chatbot-be/internal/model"
	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/internal/repository/contract"
	"ai-support-chatbot-be/internal/repository/implementation"
	"ai-support-chatbot-be/internal/repository/memory"
	"ai-support-chatbot-be/internal/service"
	"ai-support-chatbot-be/internal/websocket"
	"ai-support-chatbot-be/pkg/datasource"
	"ai-support-chatbot-be/pkg/embedding"
	"ai-support-chatbot-be/pkg/embedding/jina"
	"ai-support-chatbot-be/pkg/knowledge"
	"ai-support-chatbot-be/pkg/llm/factory"
	"ai-support-chatbot-be/pkg/rag"
	"ai-support-chatbot-be/pkg/vectorstore"
	"ai-support-chatbot-be/pkg/watcher"

	pktNats "ai-support-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rebuildTopicName = "KNOWLEDGE_REBUILD_REQUEST"

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	KnowledgeController controller.IKnowledgeController
	HealthController    controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	KnowledgeService service.IKnowledgeService
	AssistantService service.IAssistantService
	CatalogWatcher   *watcher.Watcher
	Source           datasource.DataSource

	// WebSockets
	WebSocketHandler *websocket.Handler

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if db != nil {
		if err := db.AutoMigrate(
			&model.CatalogItem{},
			&model.KnowledgeChunk{},
			&model.IndexVersionPointer{},
			&model.ChatSession{},
			&model.ChatMessage{},
		); err != nil {
			log.Printf("[WARN] AutoMigrate failed: %v", err)
		}
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	sessionTTL := time.Duration(cfg.History.SessionTTLSeconds) * time.Second

	var historyRepo contract.HistoryRepository
	switch cfg.History.Backend {
	case "postgres":
		if db == nil {
			log.Fatalf("[FATAL] HISTORY_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
		historyRepo = implementation.NewHistoryRepository(db)
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		historyRepo = implementation.NewHistoryRedisRepository(redis.NewClient(opt), sessionTTL)
	default:
		historyRepo = memory.NewHistoryRepository(sessionTTL)
	}
	log.Printf("[INFO] Using History Backend: %s", cfg.History.Backend)

	// 5. Catalog Source
	var source datasource.DataSource
	if cfg.Knowledge.SourceKind == "sheets" {
		source, err = datasource.NewSheetsSource(
			context.Background(),
			cfg.Keys.GoogleSheets,
			cfg.Knowledge.SheetsId,
			cfg.Knowledge.SheetsRange,
			cfg.Business.AboutPath,
		)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize Sheets source: %v", err)
		}
	} else {
		if db == nil {
			log.Fatalf("[FATAL] CATALOG_SOURCE=postgres requires DB_CONNECTION_STRING")
		}
		source = datasource.NewPostgresSource(db, cfg.Business.AboutPath)
	}

	// 6. Knowledge Index
	var index vectorstore.VectorIndex
	if cfg.Knowledge.VectorBackend == "postgres" {
		if db == nil {
			log.Fatalf("[FATAL] VECTOR_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
		index = vectorstore.NewPostgresIndex(db, embeddingProvider)
	} else {
		index = vectorstore.NewMemoryIndex(embeddingProvider)
	}
	log.Printf("[INFO] Using Vector Backend: %s", cfg.Knowledge.VectorBackend)

	compiler := knowledge.NewCompiler(cfg.Knowledge.CorpusPath)

	knowledgeService := service.NewKnowledgeService(
		source,
		compiler,
		index,
		natsPub,
		sysLogger,
		service.KnowledgeConfig{
			FAQPath:      cfg.Business.FAQPath,
			ChunkSize:    cfg.Knowledge.ChunkSize,
			ChunkOverlap: cfg.Knowledge.ChunkOverlap,
		},
	)

	catalogWatcher := watcher.New(
		source,
		func(ctx context.Context, records []datasource.RawRecord) error {
			return knowledgeService.RebuildFrom(ctx, records, "watcher")
		},
		sysLogger,
		watcher.Config{
			InitialInterval:   time.Duration(cfg.Watcher.InitialIntervalSeconds) * time.Second,
			MaxInterval:       time.Duration(cfg.Watcher.MaxIntervalSeconds) * time.Second,
			ChecksBeforeScale: cfg.Watcher.ChecksBeforeScale,
		},
	)

	// 7. Answer Pipeline
	pipeline := rag.NewPipeline(
		llmProvider,
		index,
		sysLogger,
		rag.BusinessProfile{
			Name:    cfg.Business.Name,
			Website: cfg.Business.Website,
			Phone:   cfg.Business.Phone,
			Email:   cfg.Business.Email,
		},
		rag.PipelineConfig{
			TopK:           cfg.Knowledge.TopK,
			StockThreshold: cfg.Knowledge.StockThreshold,
		},
	)

	assistantService := service.NewAssistantService(
		pipeline,
		historyRepo,
		natsPub,
		sysLogger,
		cfg.History.Limit,
	)

	publisherService := service.NewPublisherService(rebuildTopicName, pubSub)
	consumerService := service.NewConsumerService(pubSub, rebuildTopicName, knowledgeService)

	wsHandler := websocket.NewHandler(assistantService, sysLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		KnowledgeController: controller.NewKnowledgeController(publisherService),
		HealthController:    controller.NewHealthController(knowledgeService, catalogWatcher),

		ConsumerService:  consumerService,
		KnowledgeService: knowledgeService,
		AssistantService: assistantService,
		CatalogWatcher:   catalogWatcher,
		Source:           source,

		WebSocketHandler: wsHandler,

		Logger: sysLogger,
	}
}
