package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/teamboard"
	configFile = "config.yaml"
)

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/teamboard/config.yaml. Environment
// variables (optionally from a .env file) override file values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// A .env next to the working directory or under the config dir is
	// optional; missing files are not an error.
	for _, envPath := range envPaths() {
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			break
		}
	}

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			applyEnv(cfg)
			return cfg, cfg.Validate()
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envPaths returns the locations checked for a .env file.
func envPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, configDir, ".env"))
	}
	return paths
}

// applyEnv overlays environment variables onto the config. The variable
// names match the ones the original dashboard deployments used.
func applyEnv(cfg *Config) {
	// Expand last so the default "~/..." dir works even when no config
	// file or env override is present.
	cfg.Agents.Dir = ExpandPath(getEnvString("AGENTS_DIR", cfg.Agents.Dir))
	cfg.Server.AuthUser = getEnvString("DASHBOARD_USER", cfg.Server.AuthUser)
	cfg.Server.AuthPass = getEnvString("DASHBOARD_PASS", cfg.Server.AuthPass)
	cfg.Server.Addr = getEnvString("TEAMBOARD_ADDR", cfg.Server.Addr)
	cfg.Board.Path = getEnvString("TEAMBOARD_BOARD_FILE", cfg.Board.Path)
	cfg.Server.SessionTTL = getEnvDuration("TEAMBOARD_SESSION_TTL", cfg.Server.SessionTTL)

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}

	// TEAMBOARD_AGENTS is a comma-separated roster override, in order.
	if list := os.Getenv("TEAMBOARD_AGENTS"); list != "" {
		var ids []string
		for _, id := range strings.Split(list, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			cfg.Agents.IDs = ids
		}
	}
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable ("24h", "30m")
// or returns the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// ExpandPath expands ~ to the home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
