// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            int    `env:"PORT" envDefault:"3318"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DatabaseType    string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	AccountKeySalt  string `env:"ACCOUNT_KEY_SALT"`
	AdminName       string `env:"ADMIN_NAME" envDefault:"admin"`
	AdminExternalID string `env:"ADMIN_EXTERNAL_ID" envDefault:"0"`
	// AdminAccountID is minted on first boot when empty
	AdminAccountID string `env:"ADMIN_ACCOUNT_ID"`
}

// ParseFlags builds the configuration from the .env file, the environment
// and args, in increasing order of precedence.
func ParseFlags(args []string) (Config, error) {
	var flags Config
	var envFile string

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Dotenv file to load (missing file is ignored)")

	// Network config (can be CLI args or env)
	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.AccountKeySalt, "salt", "", "Account key salt (prefer env)")

	// Administrator bootstrap
	fs.StringVar(&flags.AdminName, "admin-name", "", "Administrator display name")
	fs.StringVar(&flags.AdminExternalID, "admin-external-id", "", "Administrator external id")
	fs.StringVar(&flags.AdminAccountID, "admin-id", "", "Administrator account id")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotenv(envFile); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	// Flags given explicitly win over the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = flags.Port
		case "d":
			cfg.DatabaseURL = flags.DatabaseURL
		case "t":
			cfg.DatabaseType = flags.DatabaseType
		case "salt":
			cfg.AccountKeySalt = flags.AccountKeySalt
		case "admin-name":
			cfg.AdminName = flags.AdminName
		case "admin-external-id":
			cfg.AdminExternalID = flags.AdminExternalID
		case "admin-id":
			cfg.AdminAccountID = flags.AdminAccountID
		}
	})

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AccountKeySalt == "" {
		return Config{}, errors.New("ACCOUNT_KEY_SALT required")
	}

	return cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
