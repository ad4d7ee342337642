package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	SMTP        SMTPConfig
	Auth        AuthConfig
	Model       ModelConfig
	Analysis    AnalysisConfig
	Attribution AttributionConfig
	RateLimit   RateLimitConfig
	Quote       QuoteConfig
	Otel        OtelConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	Timezone           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	OTPTTL        time.Duration
	AdminEmail    string
	AdminPassword string
}

// ModelConfig selects the inference backend.
type ModelConfig struct {
	Backend      string // "onnx" or "remote"
	Dir          string // vocab.txt, config.json, tokenizer_config.json, model.onnx
	OnnxFile     string
	OrtLibrary   string
	MaxSeqLen    int
	PoolSize     int
	IntraThreads int
	InterThreads int
	RemoteURL    string
	RemoteModel  string
	RemoteAPIKey string
}

type AnalysisConfig struct {
	ConfidenceThreshold float64
	MaxEmotions         int
	TopWords            int
	ChartWords          int
	PersistUnclassified bool
	UnclassifiedLabel   string
}

type AttributionConfig struct {
	Enabled      bool
	Permutations int
	Workers      int
	BatchSize    int
	Budget       time.Duration
	Seed         uint64
}

type RateLimitConfig struct {
	AnalyzePerMinute int
	Burst            int
}

type QuoteConfig struct {
	URL      string
	Fallback string
}

type OtelConfig struct {
	Enabled     bool
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Mood Journal"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "default_secret"),
			TokenTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
			OTPTTL:        getEnvAsDuration("OTP_TTL", 10*time.Minute),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@mentalhealth.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Model: ModelConfig{
			Backend:      strings.ToLower(getEnv("MODEL_BACKEND", "onnx")),
			Dir:          getEnv("MODEL_DIR", "models/distilbert-base-uncased-emotion"),
			OnnxFile:     getEnv("MODEL_ONNX_FILE", "model.onnx"),
			OrtLibrary:   getEnv("ORT_LIBRARY_PATH", ""),
			MaxSeqLen:    getEnvAsInt("MODEL_MAX_SEQ_LEN", 512),
			PoolSize:     getEnvAsInt("MODEL_SESSION_POOL", 2),
			IntraThreads: getEnvAsInt("MODEL_INTRA_THREADS", 4),
			InterThreads: getEnvAsInt("MODEL_INTER_THREADS", 1),
			RemoteURL:    getEnv("MODEL_REMOTE_URL", "https://api-inference.huggingface.co/models"),
			RemoteModel:  getEnv("MODEL_REMOTE_NAME", "bhadresh-savani/distilbert-base-uncased-emotion"),
			RemoteAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Analysis: AnalysisConfig{
			ConfidenceThreshold: getEnvAsFloat("ANALYSIS_CONFIDENCE_THRESHOLD", 0.5),
			MaxEmotions:         getEnvAsInt("ANALYSIS_MAX_EMOTIONS", 2),
			TopWords:            getEnvAsInt("ANALYSIS_TOP_WORDS", 8),
			ChartWords:          getEnvAsInt("ANALYSIS_CHART_WORDS", 5),
			PersistUnclassified: getEnvAsBool("ANALYSIS_PERSIST_UNCLASSIFIED", true),
			UnclassifiedLabel:   unclassifiedLabel(getEnv("ANALYSIS_UNCLASSIFIED_LABEL", "")),
		},
		Attribution: AttributionConfig{
			Enabled:      getEnvAsBool("ATTRIBUTION_ENABLED", true),
			Permutations: getEnvAsInt("ATTRIBUTION_PERMUTATIONS", 10),
			Workers:      getEnvAsInt("ATTRIBUTION_WORKERS", 4),
			BatchSize:    getEnvAsInt("ATTRIBUTION_BATCH_SIZE", 32),
			Budget:       getEnvAsDuration("ATTRIBUTION_BUDGET", 20*time.Second),
			Seed:         uint64(getEnvAsInt("ATTRIBUTION_SEED", 0)),
		},
		RateLimit: RateLimitConfig{
			AnalyzePerMinute: getEnvAsInt("RATE_LIMIT_ANALYZE_PER_MINUTE", 20),
			Burst:            getEnvAsInt("RATE_LIMIT_ANALYZE_BURST", 5),
		},
		Quote: QuoteConfig{
			URL:      getEnv("QUOTE_API_URL", "https://zenquotes.io/api/today"),
			Fallback: getEnv("QUOTE_FALLBACK", "Stay positive and keep moving forward!"),
		},
		Otel: OtelConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", true),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-journaling-be"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Location resolves App.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown APP_TIMEZONE %q, using UTC", c.App.Timezone)
		return time.UTC
	}
	return loc
}

// unclassifiedLabel is compared against lowercased emotion filters, so it
// is stored lowercase too.
func unclassifiedLabel(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return "unclassified"
	}
	return label
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
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
