package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is intentionally small and JSON-friendly.
type Config struct {
	// Root is the directory served by webshare. Every request path is
	// resolved under it; nothing outside is ever touched.
	Root string `json:"root"`

	// Port is the TCP port the server binds on all interfaces.
	Port int `json:"port"`
}

const DefaultPort = 8080

// FromArgs builds a Config from positional CLI arguments:
//
//	webshare [root_dir=.] [port=8080]
func FromArgs(args []string) (Config, error) {
	cfg := Config{Root: ".", Port: DefaultPort}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if len(args) > 1 {
		p, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil || p <= 0 || p > 65535 {
			return Config{}, fmt.Errorf("invalid port %q", args[1])
		}
		cfg.Port = p
	}
	return cfg, nil
}

// Finalize makes Root absolute and fills defaults. It must be called once
// before the config is shared with the server.
func (c *Config) Finalize() error {
	if strings.TrimSpace(c.Root) == "" {
		c.Root = "."
	}
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("abs root: %w", err)
	}
	c.Root = abs
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	return nil
}

// Addr returns the listen address ("all interfaces").
func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
