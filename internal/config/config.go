package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/mcp"
	"github.com/jss-tech/pencil-design-system/internal/paths"
	"github.com/jss-tech/pencil-design-system/internal/platform"
	"github.com/jss-tech/pencil-design-system/pkg/fileutil"
)

// EnvPrefix prefixes every environment override, e.g. PDS_MCP_NAME.
const EnvPrefix = "PDS"

// EnvConfigDir names an extra directory searched for config.yaml.
const EnvConfigDir = "PDS_CONFIG_DIR"

// Defaults.
const (
	DefaultServerName = "pencil"
	DefaultCommand    = "pencil"
)

// DefaultArgs are the arguments of the default MCP server command.
var DefaultArgs = []string{"mcp"}

// Config is the contents of config.yaml merged with PDS_* overrides.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// Scope is "project" or "global". Empty means ask when interactive and
	// project otherwise.
	Scope string `mapstructure:"scope" yaml:"scope,omitempty"`

	// Agents are the editors to install for when no --agent flag is given.
	Agents []string `mapstructure:"agents" yaml:"agents,omitempty"`

	MCP    MCPConfig    `mapstructure:"mcp" yaml:"mcp"`
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// MCPConfig describes the server registered in editor configs.
type MCPConfig struct {
	// Enabled is nil when unset, so the installer asks.
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`

	Name    string            `mapstructure:"name" yaml:"name"`
	Command string            `mapstructure:"command" yaml:"command,omitempty"`
	Args    []string          `mapstructure:"args" yaml:"args,omitempty"`
	URL     string            `mapstructure:"url" yaml:"url,omitempty"`
	Env     map[string]string `mapstructure:"env" yaml:"env,omitempty"`
	Headers map[string]string `mapstructure:"headers" yaml:"headers,omitempty"`
}

// BackupConfig controls MCP config backups.
type BackupConfig struct {
	Retention int    `mapstructure:"retention" yaml:"retention"`
	Dir       string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// Init resets viper and installs search paths, env binding and defaults.
// Call it once before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{"scope", "agents", "mcp.enabled", "mcp.url", "backup.dir"} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("version", 1)
	viper.SetDefault("mcp.name", DefaultServerName)
	viper.SetDefault("mcp.command", DefaultCommand)
	viper.SetDefault("mcp.args", DefaultArgs)
	viper.SetDefault("backup.retention", 5)
}

// Load reads the config file at path, or searches the default locations
// when path is empty. A missing file is only an error when path was given.
// The result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		case errors.As(err, &notFound):
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := loadCaseSensitive(&cfg, viper.ConfigFileUsed()); err != nil {
		return nil, err
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating config")
	}
	return &cfg, nil
}

// loadCaseSensitive re-reads mcp.env and mcp.headers from the config file.
// viper lowercases map keys, and environment variable names are
// case-sensitive.
func loadCaseSensitive(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	var raw struct {
		MCP struct {
			Env     map[string]string `yaml:"env"`
			Headers map[string]string `yaml:"headers"`
		} `yaml:"mcp"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "reading config file")
	}
	if raw.MCP.Env != nil {
		cfg.MCP.Env = raw.MCP.Env
	}
	if raw.MCP.Headers != nil {
		cfg.MCP.Headers = raw.MCP.Headers
	}
	return nil
}

// Used returns the config file that was read, or "".
func Used() string {
	return viper.ConfigFileUsed()
}

// ScopeOrDefault returns the configured scope and whether one was set.
func (c *Config) ScopeOrDefault() (platform.Scope, bool) {
	scope, err := platform.ParseScope(c.Scope)
	if err != nil || c.Scope == "" {
		return platform.ScopeProject, false
	}
	return scope, true
}

// Server returns the MCP server to register. A configured URL selects a
// remote server and drops the default command.
func (c *Config) Server() *mcp.Server {
	s := &mcp.Server{
		Name:    c.MCP.Name,
		Env:     c.MCP.Env,
		Headers: c.MCP.Headers,
	}
	if c.MCP.URL != "" {
		s.URL = c.MCP.URL
		return s
	}
	s.Command = c.MCP.Command
	s.Args = c.MCP.Args
	return s
}
