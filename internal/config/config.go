// Package config contains everything related to configuration.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Agents AgentsConfig `yaml:"agents"`
	Server ServerConfig `yaml:"server"`
	Board  BoardConfig  `yaml:"board"`
	Feeds  FeedsConfig  `yaml:"feeds"`
}

// AgentsConfig locates the agent log directories and fixes the roster order.
type AgentsConfig struct {
	// Dir is the root directory holding one subdirectory per agent.
	Dir string `yaml:"dir"`
	// IDs is the ordered set of known agent identifiers. Rollups iterate
	// in this order so output arrays are deterministic.
	IDs []string `yaml:"ids"`
	// Names maps agent IDs to display names.
	Names map[string]string `yaml:"names"`
}

// ServerConfig configures the HTTP listener and authentication.
type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	AuthUser   string        `yaml:"authUser"`
	AuthPass   string        `yaml:"authPass"`
	SessionTTL time.Duration `yaml:"sessionTTL"`
}

// BoardConfig configures the sprint board store.
type BoardConfig struct {
	// Path is the flat JSON file the sprint tasks persist to.
	Path string `yaml:"path"`
}

// FeedsConfig caps the message feed sizes.
type FeedsConfig struct {
	ActivityLimit int `yaml:"activityLimit"`
	MessagesLimit int `yaml:"messagesLimit"`
}

// Default values.
const (
	defaultAddr          = ":8787"
	defaultAuthUser      = "piedpiper"
	defaultSessionTTL    = 24 * time.Hour
	defaultActivityLimit = 20
	defaultMessagesLimit = 100
)

// defaultAgentIDs is the fixed roster used when nothing overrides it.
var defaultAgentIDs = []string{"richard", "erlich", "dinesh", "gilfoyle", "jiangyang"}

var defaultAgentNames = map[string]string{
	"richard":   "Richard Hendricks",
	"erlich":    "Erlich Bachman",
	"dinesh":    "Dinesh Chugtai",
	"gilfoyle":  "Bertram Gilfoyle",
	"jiangyang": "Jian-Yang",
}

// Default returns the default configuration.
func Default() *Config {
	names := make(map[string]string, len(defaultAgentNames))
	for k, v := range defaultAgentNames {
		names[k] = v
	}
	return &Config{
		Agents: AgentsConfig{
			Dir:   "~/.openclaw/agents",
			IDs:   append([]string(nil), defaultAgentIDs...),
			Names: names,
		},
		Server: ServerConfig{
			Addr:       defaultAddr,
			AuthUser:   defaultAuthUser,
			SessionTTL: defaultSessionTTL,
		},
		Board: BoardConfig{
			Path: "sprints.json",
		},
		Feeds: FeedsConfig{
			ActivityLimit: defaultActivityLimit,
			MessagesLimit: defaultMessagesLimit,
		},
	}
}

// AgentName returns the display name for an agent ID, falling back to the ID.
func (c *Config) AgentName(id string) string {
	if name, ok := c.Agents.Names[id]; ok {
		return name
	}
	return id
}

// Validate checks the configuration for errors and repairs what it can.
func (c *Config) Validate() error {
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = defaultSessionTTL
	}
	if c.Feeds.ActivityLimit <= 0 {
		c.Feeds.ActivityLimit = defaultActivityLimit
	}
	if c.Feeds.MessagesLimit <= 0 {
		c.Feeds.MessagesLimit = defaultMessagesLimit
	}
	if len(c.Agents.IDs) == 0 {
		c.Agents.IDs = append([]string(nil), defaultAgentIDs...)
	}
	return nil
}
