package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	IsProduction     bool
	UseInMemoryStore bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// ServiceSecret is the shared secret trusted callers exchange for a JWT.
	ServiceSecret string

	// LockTimeout bounds how long a transition waits for a campaign's lock.
	LockTimeout time.Duration
	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
	// BurnHistoryDays is how many daily buckets the burn endpoint returns.
	BurnHistoryDays int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables win over .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("USE_IN_MEMORY_STORE", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ledger-backend")
	viper.SetDefault("SERVICE_SECRET", "")
	viper.SetDefault("LOCK_TIMEOUT", "3s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("BURN_HISTORY_DAYS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.UseInMemoryStore = viper.GetBool("USE_IN_MEMORY_STORE")
	if cfg.DatabaseURL == "" && !cfg.UseInMemoryStore {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ServiceSecret = viper.GetString("SERVICE_SECRET")
	if cfg.ServiceSecret == "" {
		log.Println("Warning: SERVICE_SECRET not set. Token issuance is disabled.")
	}

	lockTimeoutStr := viper.GetString("LOCK_TIMEOUT")
	lockTimeout, err := time.ParseDuration(lockTimeoutStr)
	if err != nil {
		lockTimeout = 3 * time.Second
		log.Printf("Warning: Invalid value for LOCK_TIMEOUT ('%s'). Defaulting to %s.\n", lockTimeoutStr, lockTimeout)
	}
	cfg.LockTimeout = lockTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.BurnHistoryDays = viper.GetInt("BURN_HISTORY_DAYS")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}
