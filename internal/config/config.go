package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Business  BusinessConfig
	Knowledge KnowledgeConfig
	Watcher   WatcherConfig
	History   HistoryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	GoogleSheets string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string // e.g. "gemini-1.5-flash", "llama3.2"
}

type BusinessConfig struct {
	Name      string
	Website   string
	Phone     string
	Email     string
	AboutPath string
	FAQPath   string
}

type KnowledgeConfig struct {
	CorpusPath     string
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	StockThreshold int
	VectorBackend  string // "memory" or "postgres"
	SourceKind     string // "postgres" or "sheets"
	SheetsId       string
	SheetsRange    string
}

type WatcherConfig struct {
	InitialIntervalSeconds int
	MaxIntervalSeconds     int
	ChecksBeforeScale      int
}

type HistoryConfig struct {
	Backend           string // "memory", "postgres" or "redis"
	Limit             int
	SessionTTLSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GoogleSheets: getEnv("GOOGLE_SHEETS_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
		},
		Business: BusinessConfig{
			Name:      getEnv("BUSINESS_NAME", "ElectroNest"),
			Website:   getEnv("BUSINESS_WEBSITE", "electronest.com"),
			Phone:     getEnv("BUSINESS_PHONE", "07069117393"),
			Email:     getEnv("BUSINESS_EMAIL", "electronest@gmail.com"),
			AboutPath: getEnv("BUSINESS_ABOUT_PATH", "data/about.txt"),
			FAQPath:   getEnv("BUSINESS_FAQ_PATH", "data/faqs.json"),
		},
		Knowledge: KnowledgeConfig{
			CorpusPath:     getEnv("KNOWLEDGE_CORPUS_PATH", "data/knowledge.txt"),
			ChunkSize:      getEnvAsInt("KNOWLEDGE_CHUNK_SIZE", 500),
			ChunkOverlap:   getEnvAsInt("KNOWLEDGE_CHUNK_OVERLAP", 100),
			TopK:           getEnvAsInt("KNOWLEDGE_TOP_K", 5),
			StockThreshold: getEnvAsInt("KNOWLEDGE_STOCK_THRESHOLD", 5),
			VectorBackend:  getEnv("VECTOR_BACKEND", "memory"),
			SourceKind:     getEnv("CATALOG_SOURCE", "postgres"),
			SheetsId:       getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
			SheetsRange:    getEnv("GOOGLE_SHEETS_RANGE", "Catalog!A:Z"),
		},
		Watcher: WatcherConfig{
			InitialIntervalSeconds: getEnvAsInt("WATCHER_INITIAL_INTERVAL_SECONDS", 3600),
			MaxIntervalSeconds:     getEnvAsInt("WATCHER_MAX_INTERVAL_SECONDS", 86400),
			ChecksBeforeScale:      getEnvAsInt("WATCHER_CHECKS_BEFORE_SCALE", 5),
		},
		History: HistoryConfig{
			Backend:           getEnv("HISTORY_BACKEND", "memory"),
			Limit:             getEnvAsInt("HISTORY_LIMIT", 5),
			SessionTTLSeconds: getEnvAsInt("HISTORY_SESSION_TTL_SECONDS", 86400),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
