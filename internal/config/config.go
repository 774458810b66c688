// Package config loads server configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the game server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Static assets, served from / when set
	StaticDir string `yaml:"static_dir"`

	// Matchmaking
	LobbySize        int `yaml:"lobby_size"`
	PendingQueueSize int `yaml:"pending_queue_size"`

	// Match pacing
	TickPeriod time.Duration `yaml:"tick_period"`

	// Per-connection queues and deadlines
	ActionQueueSize int           `yaml:"action_queue_size"`
	UpdateQueueSize int           `yaml:"update_queue_size"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:      "127.0.0.1",
		Port:             8080,
		LogLevel:         "info",
		LobbySize:        2,
		PendingQueueSize: 100,
		TickPeriod:       time.Second,
		ActionQueueSize:  10,
		UpdateQueueSize:  10,
		WriteTimeout:     5 * time.Second,
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
