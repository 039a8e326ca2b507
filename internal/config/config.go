// Package config loads opsdesk settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Transports accepted by Server.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	DefaultModel    = "gemini-3-flash-preview"
	DefaultPort     = "8080"
	DefaultTimezone = "America/Sao_Paulo"
)

// Config holds every opsdesk setting.
type Config struct {
	// DataDir holds the sqlite database and exported budgets.
	DataDir  string         `yaml:"data_dir"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Server   ServerConfig   `yaml:"server"`
	Calendar CalendarConfig `yaml:"calendar"`
	Logging  LoggingConfig  `yaml:"logging"`

	// file holds the secrets read from the file when the environment
	// replaced them.
	file *secrets
}

type secrets struct {
	apiKey      string
	bearerToken string
}

type GeminiConfig struct {
	// APIKey left empty keeps the assistant offline.
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ServerConfig struct {
	Transport   string `yaml:"transport"`
	Port        string `yaml:"port"`
	BearerToken string `yaml:"bearer_token"`
}

// CalendarConfig enables mirroring scheduled meetings to Google Calendar.
// Mirroring is off unless both CredentialsFile and CalendarID are set.
type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	CalendarID      string `yaml:"calendar_id"`
	Timezone        string `yaml:"timezone"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Enabled reports whether calendar mirroring is configured.
func (c CalendarConfig) Enabled() bool {
	return c.CredentialsFile != "" && c.CalendarID != ""
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Gemini:  GeminiConfig{Model: DefaultModel},
		Server:  ServerConfig{Transport: TransportStdio, Port: DefaultPort},
		Calendar: CalendarConfig{
			Timezone: DefaultTimezone,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".opsdesk"
	}
	return filepath.Join(home, ".opsdesk")
}

// DefaultPath returns the config file location under the user config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(defaultDataDir(), "config.yaml")
	}
	return filepath.Join(dir, "opsdesk", "config.yaml")
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories. Secrets
// taken from the environment are not written; the file's own values are
// kept in their place.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out := *c
	if c.file != nil {
		out.Gemini.APIKey = c.file.apiKey
		out.Server.BearerToken = c.file.bearerToken
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings the commands cannot run with.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown server transport %q (want %s or %s)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file. GEMINI_API_KEY
// takes precedence over API_KEY.
func (c *Config) applyEnvOverrides() {
	file := secrets{apiKey: c.Gemini.APIKey, bearerToken: c.Server.BearerToken}
	fromEnv := false

	if key := os.Getenv("API_KEY"); key != "" {
		c.Gemini.APIKey = key
		fromEnv = true
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
		fromEnv = true
	}
	if model := os.Getenv("OPSDESK_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if dir := os.Getenv("OPSDESK_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if transport := os.Getenv("MCP_TRANSPORT"); transport != "" {
		c.Server.Transport = transport
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if token := os.Getenv("MCP_BEARER_TOKEN"); token != "" {
		c.Server.BearerToken = token
		fromEnv = true
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		c.Calendar.CredentialsFile = creds
	}
	if id := os.Getenv("OPSDESK_CALENDAR_ID"); id != "" {
		c.Calendar.CalendarID = id
	}
	if fromEnv {
		c.file = &file
	}
}
