package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/prio/prio/internal/domain"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".prio"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"

	// WorkspacesDirName holds the workspace databases inside GlobalConfigDir
	WorkspacesDirName = "workspaces"
)

// GlobalConfig represents the user-level configuration from ~/.prio/config.toml.
// Zero values mean "not set".
type GlobalConfig struct {
	ServerHost   string
	ServerPort   int
	ServerScheme string
	Strategy     domain.Strategy
}

// globalConfigFile represents the raw TOML structure for global config
type globalConfigFile struct {
	Server   serverConfig   `toml:"server"`
	Analysis analysisConfig `toml:"analysis"`
}

// LoadGlobalConfig loads the global configuration from ~/.prio/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	configPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var rawConfig globalConfigFile
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse global config TOML: %w", err)
	}
	if err := validateServer(rawConfig.Server); err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if err := validateStrategy(rawConfig.Analysis.Strategy); err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}

	cfg := &GlobalConfig{
		ServerHost:   rawConfig.Server.Host,
		ServerScheme: rawConfig.Server.Scheme,
		Strategy:     domain.Strategy(rawConfig.Analysis.Strategy),
	}
	if rawConfig.Server.Port != nil {
		cfg.ServerPort = *rawConfig.Server.Port
	}

	return cfg, nil
}

// WorkspacesDir returns where workspace databases live for the given home.
func WorkspacesDir(homeDir string) string {
	return filepath.Join(homeDir, GlobalConfigDir, WorkspacesDirName)
}
