package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string
	AuditTopic   string

	// Store selection: "memory" or "postgres"
	StoreBackend string

	// Backend selection
	ASRBackend         string
	TranslationBackend string
	NERBackend         string
	CodingBackend      string
	SOAPBackend        string

	// Whisper ASR server
	WhisperBaseURL string

	// UMLS concepts file for the file-based coding backend
	UMLSConceptsPath  string
	UMLSMinSimilarity float64

	// LLM
	LLMAPIKey    string
	LLMBaseURL   string
	LLMModelName string

	// Timeout applied around every external backend call
	BackendCallTimeout time.Duration

	// Audio storage
	AudioUploadDir string

	// Cultural phrase rules / terminology catalog / redaction rules files
	// (empty = built-in defaults)
	CultureRulesPath   string
	TerminologyPath    string
	RedactionRulesPath string

	// Session cache
	SessionCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 16*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "clinscribe"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "clinscribe123"),
		PostgresDB:       getEnv("POSTGRES_DB", "clinscribe"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "clinscribe-platform"),
		AuditTopic:   getEnv("AUDIT_TOPIC", ""),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		ASRBackend:         getEnv("ASR_BACKEND", "demo"),
		TranslationBackend: getEnv("TRANSLATION_BACKEND", "demo"),
		NERBackend:         getEnv("NLP_NER_BACKEND", "demo"),
		CodingBackend:      getEnv("NLP_CODING_BACKEND", "demo"),
		SOAPBackend:        getEnv("NLP_SOAP_BACKEND", "demo"),

		WhisperBaseURL: getEnv("WHISPER_BASE_URL", ""),

		UMLSConceptsPath:  getEnv("UMLS_CONCEPTS_PATH", ""),
		UMLSMinSimilarity: getFloatEnv("UMLS_MIN_SIMILARITY", 0.6),

		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModelName: getEnv("LLM_MODEL_NAME", "gpt-4"),

		BackendCallTimeout: getDuration("BACKEND_CALL_TIMEOUT", 30*time.Second),

		AudioUploadDir: getEnv("AUDIO_UPLOAD_DIR", "./uploads/audio"),

		CultureRulesPath:   getEnv("CULTURE_RULES_PATH", ""),
		TerminologyPath:    getEnv("TERMINOLOGY_PATH", ""),
		RedactionRulesPath: getEnv("REDACTION_RULES_PATH", ""),

		SessionCacheTTL: getDuration("SESSION_CACHE_TTL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
