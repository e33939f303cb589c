// Package config handles the global legis configuration and logging setup.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/legis/config.yml.
type GlobalConfig struct {
	BaseURL   string  `yaml:"base_url,omitempty" json:"base_url"`
	UserAgent string  `yaml:"user_agent,omitempty" json:"user_agent"`
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit"` // Requests per second; negative disables
	Timeout   string  `yaml:"timeout,omitempty" json:"timeout"`
	Output    string  `yaml:"output,omitempty" json:"output"`
	LogFile   string  `yaml:"log_file,omitempty" json:"log_file"`
	LogLevel  string  `yaml:"log_level,omitempty" json:"log_level"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "legis"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Defaults for keys missing from the config file.
const (
	DefaultBaseURL   = "https://www.planalto.gov.br"
	DefaultUserAgent = "legis/1.0 (+https://www.planalto.gov.br)"
	DefaultRateLimit = 2.0
	DefaultTimeout   = "30s"
	DefaultOutput    = "legislacao_tributaria.zip"
	DefaultLogLevel  = "info"
)

// Environment variables that override file values.
const (
	EnvBaseURL   = "LEGIS_BASE_URL"
	EnvUserAgent = "LEGIS_USER_AGENT"
	EnvLogLevel  = "LEGIS_LOG_LEVEL"
	EnvLogFile   = "LEGIS_LOG_FILE"
	EnvOutput    = "LEGIS_OUTPUT"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/legis/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file, fills defaults and
// applies environment overrides. A missing file is not an error.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	var cfg GlobalConfig
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.Output = ExpandPath(cfg.Output)
	cfg.LogFile = ExpandPath(cfg.LogFile)

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

func (c *GlobalConfig) applyEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvBaseURL, &c.BaseURL},
		{EnvUserAgent, &c.UserAgent},
		{EnvLogLevel, &c.LogLevel},
		{EnvLogFile, &c.LogFile},
		{EnvOutput, &c.Output},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
}

func (c *GlobalConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks the base URL, timeout and log level.
func (c *GlobalConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url must be an http(s) URL, got %q", ErrInvalidConfig, c.BaseURL)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TimeoutDuration parses the timeout key. Zero means no client timeout.
func (c *GlobalConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: timeout must be a non-negative duration, got %q", ErrInvalidConfig, c.Timeout)
	}
	return d, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage explains where the config file lives.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Tip: Create %s to change defaults:
  mkdir -p %s
  echo 'rate_limit: 1' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
