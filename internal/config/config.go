package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultDBPath = "./coreboard.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath             string
	Port               string
	Env                string
	MaterialModel      string // "shell" or "length_factor"
	CartonsPerTapeRoll int    // 0 means the calculator default
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("APP_ENV"),
		MaterialModel: os.Getenv("MATERIAL_MODEL"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if raw := os.Getenv("CARTONS_PER_TAPE_ROLL"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			log.Printf("warning: ignoring invalid CARTONS_PER_TAPE_ROLL %q", raw)
		} else {
			cfg.CartonsPerTapeRoll = value
		}
	}

	return cfg
}

// IsDev reports whether the app runs outside production. Dev runs apply
// migrations and demo seed data at startup.
func (c Config) IsDev() bool {
	return c.Env != "production"
}
