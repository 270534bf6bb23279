package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"chatbot.db"`
	DBWriteTimeout time.Duration `env:"DB_WRITE_TIMEOUT" envDefault:"10s"`
	LLMAPIKey      string        `env:"LLM_API_KEY,required"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UsesPostgres indica si DATABASE_URL apunta a un servidor PostgreSQL en vez de un archivo SQLite.
func (c *Config) UsesPostgres() bool {
	u := strings.ToLower(strings.TrimSpace(c.DatabaseURL))
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}
