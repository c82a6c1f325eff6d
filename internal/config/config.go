// Package config loads the bot configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process-wide configuration. It is constructed once in main
// and passed into constructors; nothing reads the environment after New.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// DefaultPrefix is the command prefix used by guilds without one of
	// their own.
	DefaultPrefix string `env:"COMMAND_PREFIX" envDefault:"cmd-"`

	// Creators is the space-delimited list of user IDs with creator
	// permissions.
	Creators string `env:"CREATORS"`

	// AppOwnerID is the owner of the bot application. Resolved from the
	// API at ready time when empty.
	AppOwnerID string `env:"APP_OWNER_ID"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	LogPath     string `env:"LOG_PATH"`

	PresenceInterval time.Duration `env:"PRESENCE_INTERVAL" envDefault:"30s"`
	HealthInterval   time.Duration `env:"HEALTH_INTERVAL" envDefault:"1m"`
}

// New loads the configuration. A missing .env file is not an error.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// CreatorIDs returns the creators list split into IDs.
func (c *Config) CreatorIDs() []string {
	return strings.Fields(c.Creators)
}
