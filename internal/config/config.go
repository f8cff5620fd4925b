package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	PublicBaseURL  string

	// Dialogue tuning
	MinConfidence           int
	MinWords                int
	CallbackConfirmTerminal bool

	// Dispatch
	BulkCallDelay time.Duration
	CountryCode   string

	// Telephony provider
	TelephonyProvider string // "exotel", "twilio" or "none"
	ExotelSID         string
	ExotelAPIKey      string
	ExotelAPIToken    string
	ExotelSubdomain   string
	CallerID          string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFrom        string

	// Advisory LLM classifier
	OpenAIAPIKey string
	LLMModel     string
	LLMTimeout   time.Duration

	// Text-to-speech
	TTSEndpoint string
	TTSTimeout  time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CountryCode:       getEnv("COUNTRY_CODE", "91"),
		TelephonyProvider: getEnv("TELEPHONY_PROVIDER", "none"),
		ExotelSID:         getEnv("EXOTEL_SID", ""),
		ExotelAPIKey:      getEnv("EXOTEL_API_KEY", ""),
		ExotelAPIToken:    getEnv("EXOTEL_API_TOKEN", ""),
		ExotelSubdomain:   getEnv("EXOTEL_SUBDOMAIN", "api.exotel.com"),
		CallerID:          getEnv("CALLER_ID", ""),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:        getEnv("TWILIO_FROM", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		TTSEndpoint:       getEnv("TTS_ENDPOINT", ""),
	}

	minConfidence, err := strconv.Atoi(getEnv("MIN_CONFIDENCE", "70"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_CONFIDENCE: %w", err)
	}
	config.MinConfidence = minConfidence

	minWords, err := strconv.Atoi(getEnv("MIN_WORDS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_WORDS: %w", err)
	}
	config.MinWords = minWords

	callbackTerminal, err := strconv.ParseBool(getEnv("CALLBACK_CONFIRM_TERMINAL", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CALLBACK_CONFIRM_TERMINAL: %w", err)
	}
	config.CallbackConfirmTerminal = callbackTerminal

	bulkDelay, err := strconv.Atoi(getEnv("BULK_CALL_DELAY_MS", "2000"))
	if err != nil {
		return nil, fmt.Errorf("invalid BULK_CALL_DELAY_MS: %w", err)
	}
	config.BulkCallDelay = time.Duration(bulkDelay) * time.Millisecond

	llmTimeout, err := strconv.Atoi(getEnv("LLM_TIMEOUT_MS", "2000"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_MS: %w", err)
	}
	config.LLMTimeout = time.Duration(llmTimeout) * time.Millisecond

	ttsTimeout, err := strconv.Atoi(getEnv("TTS_TIMEOUT_MS", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT_MS: %w", err)
	}
	config.TTSTimeout = time.Duration(ttsTimeout) * time.Millisecond

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
