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
	Ai        AIConfig
	Guard     GuardConfig
	Session   SessionConfig
	Messenger MessengerConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	IngestTopicName    string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OpenAIAPIKey   string
	EmbeddingModel string
	EmbeddingDim   int
	AgentModel     string
	PolicyModel    string
	LLMProvider    string // "openai" or "ollama"
	OllamaBaseURL  string
	OllamaModel    string
	CallTimeoutSec int
}

type GuardConfig struct {
	RulesFilePath       string
	SimilarityThreshold float64
}

type SessionConfig struct {
	MaxTurns int
	TTLHours float64
}

type MessengerConfig struct {
	PageAccessToken  string
	VerifyToken      string
	GraphAPIURL      string
	AttachmentsFile  string
	MaxImagesPerSend int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/salesbot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			IngestTopicName:    getEnv("INGEST_TOPIC_NAME", "EMBED_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDim:   getEnvAsInt("EMBEDDING_DIM", 1536),
			AgentModel:     getEnv("AGENT_MODEL", "gpt-4o-mini"),
			PolicyModel:    getEnv("POLICY_MODEL", "gpt-4o-mini"),
			LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
			CallTimeoutSec: getEnvAsInt("AI_CALL_TIMEOUT_SEC", 15),
		},
		Guard: GuardConfig{
			RulesFilePath:       getEnv("GUARD_RULES_FILE", "data/topics.json"),
			SimilarityThreshold: getEnvAsFloat("GUARD_SIMILARITY_THRESHOLD", 0.45),
		},
		Session: SessionConfig{
			MaxTurns: getEnvAsInt("MAX_HISTORY_TURNS", 50),
			TTLHours: getEnvAsFloat("SESSION_TTL_HOURS", 24),
		},
		Messenger: MessengerConfig{
			PageAccessToken:  getEnv("FB_PAGE_ACCESS_TOKEN", ""),
			VerifyToken:      getEnv("FB_VERIFY_TOKEN", ""),
			GraphAPIURL:      getEnv("GRAPH_API_URL", "https://graph.facebook.com/v24.0/me/messages"),
			AttachmentsFile:  getEnv("FB_ATTACHMENTS_FILE", "data/fb_attachment_ids.json"),
			MaxImagesPerSend: getEnvAsInt("MAX_IMAGES_PER_MESSAGE", 3),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
