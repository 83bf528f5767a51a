package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	// one year; larger values overflow the session lifetime as a time.Duration
	maxSessionAgeHours = 8760
)

// AppConfig holds everything main needs to build the service
type AppConfig struct {
	ServerPort          string
	StoreDriver         string
	DB                  *DBConfig
	SessionSecret       string
	SessionMaxAgeHours  int64
	SessionCookieSecure bool
	BcryptCost          int
	ModelSource         string
	S3Region            string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	LogLevel            string
	GinMode             string
}

// LoadEnvFile loads a .env file into the environment if one exists.
// It reports whether a file was loaded.
func LoadEnvFile(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// Load builds the AppConfig from environment variables
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		SessionSecret: os.Getenv("SESSION_SECRET_KEY"),
		ModelSource:   getEnv("MODEL_SOURCE", "models/loan_model.yaml"),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		GinMode:       getEnv("GIN_MODE", "release"),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET_KEY not set in environment")
	}

	var err error
	if cfg.SessionMaxAgeHours, err = strconv.ParseInt(getEnv("SESSION_MAX_AGE_HOURS", "24"), 10, 64); err != nil ||
		cfg.SessionMaxAgeHours <= 0 || cfg.SessionMaxAgeHours > maxSessionAgeHours {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE_HOURS %q, must be between 1 and %d", os.Getenv("SESSION_MAX_AGE_HOURS"), maxSessionAgeHours)
	}
	if cfg.SessionCookieSecure, err = strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))); err != nil ||
		cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q, must be between %d and %d", os.Getenv("BCRYPT_COST"), bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if cfg.DB, err = LoadDBConfig(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
