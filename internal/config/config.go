package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the depths server.
type Server struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// World generation
	WorldSeed uint64 `yaml:"world_seed"` // 0 = random seed per game
	Levels    int    `yaml:"levels"`     // Depth of the dungeon

	// Database (optional: empty host disables persistence)
	Database DatabaseConfig `yaml:"database"`

	// Shop subsystem tuning
	Shop ShopConfig `yaml:"shop"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Enabled returns true if persistence is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// ShopConfig tunes the shop commerce subsystem.
type ShopConfig struct {
	AutosaveInterval time.Duration `yaml:"autosave_interval"` // 0 = disabled
	MimicChanceCap   int           `yaml:"mimic_chance_cap"`  // percent, depth-scaled chance cap
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel:  "info",
		WorldSeed: 0,
		Levels:    20,
		Database: DatabaseConfig{
			Host:     "",
			Port:     5432,
			User:     "depths",
			Password: "depths",
			DBName:   "depths",
			SSLMode:  "disable",
		},
		Shop: ShopConfig{
			AutosaveInterval: 2 * time.Minute,
			MimicChanceCap:   10,
		},
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
