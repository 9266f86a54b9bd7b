package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all process-wide settings, loaded once at startup.
type Config struct {
	// Token is the bot credential. Startup fails without it.
	Token string `env:"TOKEN,required"`

	// AdminID grants operator privilege to this numeric user id. Zero
	// means no id-based operator.
	AdminID int64 `env:"ADMIN_ID" envDefault:"0"`

	// AllowedAdmins grants operator privilege to these handles.
	AllowedAdmins []string `env:"ALLOWED_ADMINS" envSeparator:","`

	// AdminGroupID is the operator broadcast chat.
	AdminGroupID int64 `env:"ADMIN_GROUP_ID" envDefault:"-1003694488802"`

	// ProductsFile is the catalog backing file.
	ProductsFile string `env:"PRODUCTS_FILE" envDefault:"products.json"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	// .env values override the inherited environment.
	_ = godotenv.Overload()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
