package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Knowledge KnowledgeConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	AllowedClients     []int
	SessionTTLMinutes  int
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	ChatModel         string
	EmbeddingModel    string
	Temperature       float64
	MaxOutputTokens   int
	RewriteTemp       float64
	RewriteMaxTokens  int
	MemoryWindowTurns int
}

type KnowledgeConfig struct {
	GuidePath  string
	ManualPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/assistant.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200"),
			AllowedClients:     getEnvAsIntList("ALLOWED_CLIENT_IDS", []int{1}),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 120),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			ChatModel:         getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
			EmbeddingModel:    getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			Temperature:       getEnvAsFloat("GEMINI_TEMPERATURE", 0.4),
			MaxOutputTokens:   getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 1024),
			RewriteTemp:       getEnvAsFloat("GEMINI_REWRITE_TEMPERATURE", 0.1),
			RewriteMaxTokens:  getEnvAsInt("GEMINI_REWRITE_MAX_TOKENS", 64),
			MemoryWindowTurns: getEnvAsInt("MEMORY_WINDOW_TURNS", 5),
		},
		Knowledge: KnowledgeConfig{
			GuidePath:  getEnv("GUIDE_DATA_PATH", "data/guides.json"),
			ManualPath: getEnv("MANUAL_DATA_PATH", "data/manual.txt"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsIntList(key string, fallback []int) []int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var values []int
	for _, part := range strings.Split(strValue, ",") {
		if v, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
