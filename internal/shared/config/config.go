package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Auth         AuthConfig
	Secrets      SecretsConfig
	EventStore   EventStoreConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	ReturnPolicy ReturnPolicyConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret          string
	AccessTokenMinutes int
	RefreshTokenDays   int
}

// SecretsConfig holds key material for the sensitive-field codec.
type SecretsConfig struct {
	EncryptionKey string
}

// EventStoreConfig holds configuration for the optional KurrentDB event stream.
type EventStoreConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	Burst             int
}

// ReturnPolicyConfig holds the return-date rules. These are policy, not
// algorithm: the suggestion function receives them explicitly and never reads
// ambient state.
type ReturnPolicyConfig struct {
	WeightLossDays      int
	HypertrophyDays     int
	MaintenanceDays     int
	GeneralHealthDays   int
	DefaultDays         int
	LowAdherencePenalty int
	MinIntervalDays     int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "enutri"),
			Password: getEnv("DB_PASSWORD", "enutri"),
			Database: getEnv("DB_NAME", "enutri"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			AccessTokenMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
			RefreshTokenDays:   getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		},
		Secrets: SecretsConfig{
			EncryptionKey: getEnv("ENCRYPTION_KEY", "dev-encryption-key-change-in-prod"),
		},
		EventStore: EventStoreConfig{
			Enabled:  getEnvBool("EVENTSTORE_ENABLED", false),
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvInt("RATE_LIMIT_RPS", 20),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 40),
		},
		ReturnPolicy: ReturnPolicyConfig{
			WeightLossDays:      getEnvInt("RETURN_RULE_WEIGHT_LOSS", 14),
			HypertrophyDays:     getEnvInt("RETURN_RULE_HYPERTROPHY", 21),
			MaintenanceDays:     getEnvInt("RETURN_RULE_MAINTENANCE", 30),
			GeneralHealthDays:   getEnvInt("RETURN_RULE_GENERAL_HEALTH", 30),
			DefaultDays:         getEnvInt("RETURN_RULE_DEFAULT", 30),
			LowAdherencePenalty: getEnvInt("RETURN_RULE_LOW_ADHERENCE_PENALTY", 7),
			MinIntervalDays:     getEnvInt("RETURN_RULE_MIN_DAYS", 7),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
