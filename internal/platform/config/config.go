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
	JWTIssuer         string
	JWTExpiryDuration time.Duration
	AuthUsername      string
	AuthPasswordHash  string

	FiatRatesURL        string
	CryptoRatesURL      string
	RateCacheFile       string
	RateFreshnessWindow time.Duration
	RateFetchTimeout    time.Duration
	RateRefreshSchedule string
	RateLimitRPS        int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "papio-backend")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("AUTH_USERNAME", "admin")
	viper.SetDefault("AUTH_PASSWORD_HASH", "")
	viper.SetDefault("FIAT_RATES_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml")
	viper.SetDefault("CRYPTO_RATES_URL", "https://api.coinmarketcap.com/v1/ticker/?convert=EUR")
	viper.SetDefault("RATE_CACHE_FILE", "rate_cache.msgpack")
	viper.SetDefault("RATE_FRESHNESS_WINDOW", "60s")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	viper.SetDefault("RATE_REFRESH_SCHEDULE", "@every 15m")
	viper.SetDefault("RATE_LIMIT_RPS", 20)

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
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.AuthUsername = viper.GetString("AUTH_USERNAME")
	cfg.AuthPasswordHash = viper.GetString("AUTH_PASSWORD_HASH")
	if cfg.AuthPasswordHash == "" {
		log.Println("Warning: AUTH_PASSWORD_HASH environment variable not set. Login will be impossible.")
	}

	cfg.FiatRatesURL = viper.GetString("FIAT_RATES_URL")
	cfg.CryptoRatesURL = viper.GetString("CRYPTO_RATES_URL")
	cfg.RateCacheFile = viper.GetString("RATE_CACHE_FILE")

	freshnessStr := viper.GetString("RATE_FRESHNESS_WINDOW")
	freshness, err := time.ParseDuration(freshnessStr)
	if err != nil {
		freshness = 60 * time.Second
		log.Printf("Warning: Invalid value for RATE_FRESHNESS_WINDOW ('%s'). Defaulting to %s.\n", freshnessStr, freshness)
	}
	cfg.RateFreshnessWindow = freshness

	fetchTimeoutStr := viper.GetString("RATE_FETCH_TIMEOUT")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		fetchTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for RATE_FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", fetchTimeoutStr, fetchTimeout)
	}
	cfg.RateFetchTimeout = fetchTimeout

	cfg.RateRefreshSchedule = viper.GetString("RATE_REFRESH_SCHEDULE")
	cfg.RateLimitRPS = viper.GetInt("RATE_LIMIT_RPS")

	return cfg, nil
}
