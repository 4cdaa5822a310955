package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/prio/prio/internal/domain"
)

const (
	// ConfigFileName is the name of the project configuration file
	ConfigFileName = "prio.toml"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 8000

	// DefaultServerScheme is the default URL scheme
	DefaultServerScheme = "http"
)

// ErrNotConfigured is returned when no prio.toml is found.
var ErrNotConfigured = errors.New("No prio.toml found. Run 'prio init <name>' to create one.")

// ProjectConfig represents the project-level configuration from prio.toml
type ProjectConfig struct {
	Workspace    string
	ServerHost   string
	ServerPort   int
	ServerScheme string
	Strategy     domain.Strategy

	// Path is the file the config was read from.
	Path string

	hostExplicitlySet     bool
	portExplicitlySet     bool
	schemeExplicitlySet   bool
	strategyExplicitlySet bool
}

// projectConfigFile represents the raw TOML structure
type projectConfigFile struct {
	Workspace string         `toml:"workspace"`
	Server    serverConfig   `toml:"server"`
	Analysis  analysisConfig `toml:"analysis"`
}

// serverConfig represents the [server] section in TOML
type serverConfig struct {
	Host   string `toml:"host"`
	Port   *int   `toml:"port"`
	Scheme string `toml:"scheme"`
}

// analysisConfig represents the [analysis] section in TOML
type analysisConfig struct {
	Strategy string `toml:"strategy"`
}

// DiscoverProjectConfig finds and parses prio.toml by walking up from the
// current working directory.
func DiscoverProjectConfig() (*ProjectConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return DiscoverProjectConfigFrom(cwd)
}

// DiscoverProjectConfigFrom searches for prio.toml starting at startDir.
func DiscoverProjectConfigFrom(startDir string) (*ProjectConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseProjectConfig(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotConfigured
		}
		dir = parent
	}
}

// ParseProjectConfig parses the prio.toml file at the given path
func ParseProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig projectConfigFile
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if rawConfig.Workspace == "" {
		return nil, errors.New("workspace name cannot be empty")
	}
	if err := validateServer(rawConfig.Server); err != nil {
		return nil, err
	}
	if err := validateStrategy(rawConfig.Analysis.Strategy); err != nil {
		return nil, err
	}

	cfg := &ProjectConfig{
		Workspace:    rawConfig.Workspace,
		ServerHost:   DefaultServerHost,
		ServerPort:   DefaultServerPort,
		ServerScheme: DefaultServerScheme,
		Strategy:     domain.DefaultStrategy,
		Path:         path,
	}

	if rawConfig.Server.Host != "" {
		cfg.ServerHost = rawConfig.Server.Host
		cfg.hostExplicitlySet = true
	}
	if rawConfig.Server.Port != nil {
		cfg.ServerPort = *rawConfig.Server.Port
		cfg.portExplicitlySet = true
	}
	if rawConfig.Server.Scheme != "" {
		cfg.ServerScheme = rawConfig.Server.Scheme
		cfg.schemeExplicitlySet = true
	}
	if rawConfig.Analysis.Strategy != "" {
		cfg.Strategy = domain.Strategy(rawConfig.Analysis.Strategy)
		cfg.strategyExplicitlySet = true
	}

	return cfg, nil
}

// InitOptions are the values written to a new prio.toml. Zero values are
// left out of the file.
type InitOptions struct {
	Workspace string
	Host      string
	Port      int
	Scheme    string
	Strategy  string
}

type initServer struct {
	Host   string `toml:"host,omitempty"`
	Port   int    `toml:"port,omitempty"`
	Scheme string `toml:"scheme,omitempty"`
}

type initFile struct {
	Workspace string          `toml:"workspace"`
	Server    *initServer     `toml:"server,omitempty"`
	Analysis  *analysisConfig `toml:"analysis,omitempty"`
}

// WriteProjectConfig creates prio.toml in dir. It refuses to overwrite an
// existing file.
func WriteProjectConfig(dir string, opts InitOptions) (string, error) {
	if opts.Workspace == "" {
		return "", errors.New("workspace name cannot be empty")
	}

	out := initFile{Workspace: opts.Workspace}
	if opts.Host != "" || opts.Port != 0 || opts.Scheme != "" {
		out.Server = &initServer{Host: opts.Host, Port: opts.Port, Scheme: opts.Scheme}
		srv := serverConfig{Host: opts.Host, Scheme: opts.Scheme}
		if opts.Port != 0 {
			srv.Port = &opts.Port
		}
		if err := validateServer(srv); err != nil {
			return "", err
		}
	}
	if opts.Strategy != "" {
		if err := validateStrategy(opts.Strategy); err != nil {
			return "", err
		}
		out.Analysis = &analysisConfig{Strategy: opts.Strategy}
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists in %s", ConfigFileName, dir)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// HostExplicitlySet returns true if the host was explicitly set in the config file
func (c *ProjectConfig) HostExplicitlySet() bool {
	return c.hostExplicitlySet
}

// PortExplicitlySet returns true if the port was explicitly set in the config file
func (c *ProjectConfig) PortExplicitlySet() bool {
	return c.portExplicitlySet
}

// SchemeExplicitlySet returns true if the scheme was explicitly set in the config file
func (c *ProjectConfig) SchemeExplicitlySet() bool {
	return c.schemeExplicitlySet
}

// StrategyExplicitlySet returns true if the strategy was explicitly set in the config file
func (c *ProjectConfig) StrategyExplicitlySet() bool {
	return c.strategyExplicitlySet
}

func validateServer(s serverConfig) error {
	if s.Port != nil {
		if err := validatePort(*s.Port); err != nil {
			return err
		}
	}
	if s.Scheme != "" && s.Scheme != "http" && s.Scheme != "https" {
		return fmt.Errorf("invalid scheme %q: must be http or https", s.Scheme)
	}
	return nil
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}

func validateStrategy(s string) error {
	if s == "" || domain.Strategy(s).IsValid() {
		return nil
	}
	return fmt.Errorf("invalid strategy %q: must be one of %v", s, domain.ValidStrategies)
}
