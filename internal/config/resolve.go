package config

import (
	"fmt"
	"os"

	"github.com/prio/prio/internal/domain"
)

// ResolvedConfig is the merged configuration. Precedence, highest first:
// project prio.toml, global ~/.prio/config.toml, built-in defaults.
type ResolvedConfig struct {
	Workspace     string
	ServerHost    string
	ServerPort    int
	ServerScheme  string
	Strategy      domain.Strategy
	WorkspacesDir string
}

// ResolveConfig discovers the project config from the working directory,
// loads the global config and merges them.
func ResolveConfig() (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return ResolveConfigWithHome(homeDir, cwd)
}

// ResolveConfigWithHome resolves config using explicit home and start directories.
func ResolveConfigWithHome(homeDir, startDir string) (*ResolvedConfig, error) {
	projectCfg, err := DiscoverProjectConfigFrom(startDir)
	if err != nil {
		return nil, err
	}

	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Workspace:     projectCfg.Workspace,
		ServerHost:    DefaultServerHost,
		ServerPort:    DefaultServerPort,
		ServerScheme:  DefaultServerScheme,
		Strategy:      domain.DefaultStrategy,
		WorkspacesDir: WorkspacesDir(homeDir),
	}

	if globalCfg.ServerHost != "" {
		resolved.ServerHost = globalCfg.ServerHost
	}
	if globalCfg.ServerPort != 0 {
		resolved.ServerPort = globalCfg.ServerPort
	}
	if globalCfg.ServerScheme != "" {
		resolved.ServerScheme = globalCfg.ServerScheme
	}
	if globalCfg.Strategy != "" {
		resolved.Strategy = globalCfg.Strategy
	}

	if projectCfg.HostExplicitlySet() {
		resolved.ServerHost = projectCfg.ServerHost
	}
	if projectCfg.PortExplicitlySet() {
		resolved.ServerPort = projectCfg.ServerPort
	}
	if projectCfg.SchemeExplicitlySet() {
		resolved.ServerScheme = projectCfg.ServerScheme
	}
	if projectCfg.StrategyExplicitlySet() {
		resolved.Strategy = projectCfg.Strategy
	}

	return resolved, nil
}
