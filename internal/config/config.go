// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr         string `env:"ADDR" envDefault:":8080"`
	ScenesPath   string `env:"SCENES_PATH" envDefault:"scenes/academy.yaml"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`

	// DBPath enables the SQLite save store; empty keeps saves in memory.
	DBPath string `env:"DB_PATH"`

	// GeminiAPIKey enables generated narration; empty means authored
	// fallback content only.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
