// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port         string
	DappPort     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Blockchain
	Network              string
	NetworkConfigPath    string
	ContractArtifactPath string
	RPCTimeout           time.Duration

	// Oracles
	OracleCount     int
	DappOracleCount int
	OracleFromBlock int64

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string
	MongoTimeout  time.Duration

	// PostgreSQL
	PostgresURI string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightsurety"),

		Port:         getEnv("PORT", "3000"),
		DappPort:     getEnv("DAPP_PORT", "8000"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		Network:              getEnv("NETWORK", "localhost"),
		NetworkConfigPath:    getEnv("NETWORK_CONFIG_PATH", "config.json"),
		ContractArtifactPath: getEnv("CONTRACT_ARTIFACT_PATH", ""),
		RPCTimeout:           time.Duration(getEnvAsInt("RPC_TIMEOUT", 30)) * time.Second,

		OracleCount:     getEnvAsInt("ORACLE_COUNT", 30),
		DappOracleCount: getEnvAsInt("DAPP_ORACLE_COUNT", 5),
		OracleFromBlock: int64(getEnvAsInt("ORACLE_FROM_BLOCK", 0)),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "flightsurety"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),
		MongoTimeout:  time.Duration(getEnvAsInt("MONGO_TIMEOUT", 10)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
