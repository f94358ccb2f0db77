package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port         string
	Env          string
	DBPath       string
	AMQPURL      string
	AMQPExchange string
	OTLPEndpoint string
	DebugRoutes  bool
}

// Load reads configuration from environment variables, falling back to a
// .env file in development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8083"),
		Env:          getEnv("ENV", "development"),
		DBPath:       getEnv("DB_PATH", "./data/chat.db"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "chat_simulator.events"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		DebugRoutes:  getEnv("DEBUG_ROUTES", "false") == "true",
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
