package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort                 string
	Environment                string
	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string

	// StoreDriver is "firestore" or "memory".
	StoreDriver string
	// AnalyticsSink is "firestore", "kafka" or "memory".
	AnalyticsSink       string
	KafkaBroker         string
	KafkaMerchantTopic  string
	KafkaTelemetryTopic string

	// RedisAddr empty keeps prompt dismissals in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ContactDedupWindow    time.Duration
	PageViewDedupWindow   time.Duration
	NavigationDedupWindow time.Duration
	ClickDedupWindow      time.Duration
	DedupRetention        time.Duration

	PromptMinAge          time.Duration
	PromptMaxAge          time.Duration
	PromptInterval        time.Duration
	PromptDismissTTL      time.Duration
	PromptReopenCancelled bool

	// TelemetryRateLimit is requests per minute per subject; 0 disables it.
	TelemetryRateLimit int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:                 getEnv("SERVER_PORT", "8080"),
		Environment:                getEnv("ENVIRONMENT", "development"),
		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		StoreDriver:         getEnv("STORE_DRIVER", "firestore"),
		AnalyticsSink:       getEnv("ANALYTICS_SINK", "firestore"),
		KafkaBroker:         getEnv("KAFKA_BROKER", "kafka:9092"),
		KafkaMerchantTopic:  getEnv("KAFKA_MERCHANT_TOPIC", "merchant.analytics"),
		KafkaTelemetryTopic: getEnv("KAFKA_TELEMETRY_TOPIC", "ui.telemetry"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ContactDedupWindow:    getEnvAsDuration("CONTACT_DEDUP_WINDOW", 2*time.Second),
		PageViewDedupWindow:   getEnvAsDuration("PAGE_VIEW_DEDUP_WINDOW", 2*time.Second),
		NavigationDedupWindow: getEnvAsDuration("NAVIGATION_DEDUP_WINDOW", time.Second),
		ClickDedupWindow:      getEnvAsDuration("CLICK_DEDUP_WINDOW", time.Second),
		DedupRetention:        getEnvAsDuration("DEDUP_RETENTION", 10*time.Minute),

		PromptMinAge:          getEnvAsDuration("PROMPT_MIN_AGE", 24*time.Hour),
		PromptMaxAge:          getEnvAsDuration("PROMPT_MAX_AGE", 48*time.Hour),
		PromptInterval:        getEnvAsDuration("PROMPT_INTERVAL", 30*time.Minute),
		PromptDismissTTL:      getEnvAsDuration("PROMPT_DISMISS_TTL", 24*time.Hour),
		PromptReopenCancelled: getEnvAsBool("PROMPT_REOPEN_CANCELLED", true),

		TelemetryRateLimit: getEnvAsInt("TELEMETRY_RATE_LIMIT", 120),
	}

	// Pruning younger than a window would let a duplicate through.
	for _, w := range []time.Duration{config.ContactDedupWindow, config.PageViewDedupWindow, config.NavigationDedupWindow, config.ClickDedupWindow} {
		if config.DedupRetention < w {
			config.DedupRetention = w
		}
	}

	switch config.StoreDriver {
	case "firestore", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q: want firestore or memory", config.StoreDriver)
	}
	switch config.AnalyticsSink {
	case "firestore", "kafka", "memory":
	default:
		return nil, fmt.Errorf("unknown ANALYTICS_SINK %q: want firestore, kafka or memory", config.AnalyticsSink)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
