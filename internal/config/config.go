// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Bridge  BridgeConfig  `json:"bridge" yaml:"bridge"`
	Console ConsoleConfig `json:"console" yaml:"console"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// BridgeConfig holds bridge launch configuration. The GANGWAY_BRIDGE_CMD
// environment variable overrides all of it at spawn time.
type BridgeConfig struct {
	// ProjectDir is the application directory whose bridge/ subproject (and
	// sibling ../bridge checkout) the resolver probes.
	ProjectDir string `json:"project_dir" yaml:"project_dir"`
	// EntryPoint is the built bridge artifact, relative to the subproject.
	EntryPoint string `json:"entry_point" yaml:"entry_point"`
	// Interpreter runs the built entry point.
	Interpreter string `json:"interpreter" yaml:"interpreter"`
	// PackageManager runs the dev task when no build artifact exists.
	PackageManager string `json:"package_manager" yaml:"package_manager"`
	// DevTask is the package-manager script for dev mode.
	DevTask string `json:"dev_task" yaml:"dev_task"`
}

// ConsoleConfig holds scrollback configuration.
type ConsoleConfig struct {
	Scrollback int `json:"scrollback" yaml:"scrollback"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8423,
		},
		Bridge: BridgeConfig{
			ProjectDir:     ".",
			EntryPoint:     "dist/index.js",
			Interpreter:    "node",
			PackageManager: "npm",
			DevTask:        "dev",
		},
		Console: ConsoleConfig{
			Scrollback: 1000,
		},
	}
}

// Load loads configuration from a file (supports JSON and YAML).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	baseDir := ""

	if path == "" {
		home, _ := os.UserHomeDir()
		// Try YAML first, then JSON
		yamlPath := filepath.Join(home, ".gangway", "config.yaml")
		jsonPath := filepath.Join(home, ".gangway", "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
			baseDir = filepath.Dir(path)
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
			baseDir = filepath.Dir(path)
		} else {
			// No config file found, return defaults
			return cfg, nil
		}
	} else {
		baseDir = filepath.Dir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Detect format by extension
	isYAML := strings.HasSuffix(strings.ToLower(path), ".yaml") || strings.HasSuffix(strings.ToLower(path), ".yml")

	if isYAML {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	// Expand ~ and resolve a relative project dir against the config file
	// directory, so the resolver probes the same layout no matter where the
	// shell was launched from.
	cfg.Bridge.ProjectDir = resolvePath(cfg.Bridge.ProjectDir, baseDir)

	return cfg, nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".gangway", "config.json")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Address returns the server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// expandHome expands ~ to home directory in paths.
func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	// Support "~/..." (and Windows separators just in case)
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		home, _ := os.UserHomeDir()
		rest := path[2:]
		return filepath.Join(home, rest)
	}
	// We intentionally don't expand "~user/..." forms.
	return path
}

// resolvePath expands ~ and resolves relative paths against baseDir.
// If baseDir is empty, relative paths are returned unchanged.
func resolvePath(value, baseDir string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	p := expandHome(value)
	if filepath.IsAbs(p) {
		return p
	}
	if baseDir == "" {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
