package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Import pipeline knobs
	ImportMaxBatchInFlight int // concurrent persistence batches per import
	BackgroundCategorizeAt int // accepted-record count beyond which categorization goes to the queue
	CategorizeBatchSize    int // category-update batch size

	// Background job queue
	JobQueueBuffer  int
	JobQueueWorkers int

	// Rate limiting for the import route, limiter format (e.g. "30-M")
	ImportRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "statement-sync-app")
	viper.SetDefault("IMPORT_MAX_BATCH_IN_FLIGHT", 4)
	viper.SetDefault("BACKGROUND_CATEGORIZE_AT", 50)
	viper.SetDefault("CATEGORIZE_BATCH_SIZE", 100)
	viper.SetDefault("JOB_QUEUE_BUFFER", 64)
	viper.SetDefault("JOB_QUEUE_WORKERS", 2)
	viper.SetDefault("IMPORT_RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ImportMaxBatchInFlight = viper.GetInt("IMPORT_MAX_BATCH_IN_FLIGHT")
	if cfg.ImportMaxBatchInFlight <= 0 {
		cfg.ImportMaxBatchInFlight = 4
	}
	cfg.BackgroundCategorizeAt = viper.GetInt("BACKGROUND_CATEGORIZE_AT")
	if cfg.BackgroundCategorizeAt <= 0 {
		cfg.BackgroundCategorizeAt = 50
	}
	cfg.CategorizeBatchSize = viper.GetInt("CATEGORIZE_BATCH_SIZE")
	if cfg.CategorizeBatchSize <= 0 {
		cfg.CategorizeBatchSize = 100
	}
	cfg.JobQueueBuffer = viper.GetInt("JOB_QUEUE_BUFFER")
	cfg.JobQueueWorkers = viper.GetInt("JOB_QUEUE_WORKERS")
	cfg.ImportRateLimit = viper.GetString("IMPORT_RATE_LIMIT")

	return cfg, nil
}
