// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Network() NetworkConfig
	Pacing() PacingConfig
	Agent() AgentConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserDebug(bool)

	// Pacing Setters
	SetPacingEnabled(bool)

	// Network Setters
	SetNetworkNavigationTimeout(d time.Duration)
	SetNetworkPostLoadWait(d time.Duration)

	// Agent Setters
	SetAgentAutoScreenshot(bool)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger  LoggerConfig
	browser BrowserConfig
	network NetworkConfig
	pacing  PacingConfig
	agent   AgentConfig
}

func (c *Config) Logger() LoggerConfig   { return c.logger }
func (c *Config) Browser() BrowserConfig { return c.browser }
func (c *Config) Network() NetworkConfig { return c.network }
func (c *Config) Pacing() PacingConfig   { return c.pacing }
func (c *Config) Agent() AgentConfig     { return c.agent }

func (c *Config) SetBrowserHeadless(b bool) { c.browser.Headless = b }
func (c *Config) SetBrowserDebug(b bool)    { c.browser.Debug = b }

func (c *Config) SetPacingEnabled(b bool) { c.pacing.Enabled = b }

func (c *Config) SetNetworkNavigationTimeout(d time.Duration) {
	c.network.NavigationTimeout = d
}
func (c *Config) SetNetworkPostLoadWait(d time.Duration) { c.network.PostLoadWait = d }

func (c *Config) SetAgentAutoScreenshot(b bool) { c.agent.AutoScreenshot = b }

// LoggerConfig controls log output, formatting, and file rotation.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless  bool           `mapstructure:"headless" yaml:"headless"`
	Debug     bool           `mapstructure:"debug" yaml:"debug"`
	UserAgent string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args      []string       `mapstructure:"args" yaml:"args"`
	Viewport  map[string]int `mapstructure:"viewport" yaml:"viewport"`
}

// ViewportWidth returns the configured viewport width, falling back to 1280.
func (b BrowserConfig) ViewportWidth() int {
	if w, ok := b.Viewport["width"]; ok && w > 0 {
		return w
	}
	return 1280
}

// ViewportHeight returns the configured viewport height, falling back to 800.
func (b BrowserConfig) ViewportHeight() int {
	if h, ok := b.Viewport["height"]; ok && h > 0 {
		return h
	}
	return 800
}

// NetworkConfig tunes navigation and page-settling behavior.
type NetworkConfig struct {
	NavigationTimeout time.Duration     `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration     `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	Headers           map[string]string `mapstructure:"headers" yaml:"headers"`
}

// PacingConfig contains the tunable knobs for human-pacing simulation.
// When disabled, interactions fall back to plain driver actions with no
// artificial delays.
type PacingConfig struct {
	Enabled          bool    `mapstructure:"enabled" yaml:"enabled"`
	KeyDelayMeanMs   float64 `mapstructure:"key_delay_mean_ms" yaml:"key_delay_mean_ms"`
	KeyDelayJitterMs float64 `mapstructure:"key_delay_jitter_ms" yaml:"key_delay_jitter_ms"`
	PauseMeanMs      float64 `mapstructure:"pause_mean_ms" yaml:"pause_mean_ms"`
	PauseStdDevMs    float64 `mapstructure:"pause_stddev_ms" yaml:"pause_stddev_ms"`
}

// AgentConfig holds settings related to the LLM agent loop.
type AgentConfig struct {
	LLM            LLMConfig `mapstructure:"llm" yaml:"llm"`
	MaxTurns       int       `mapstructure:"max_turns" yaml:"max_turns"`
	AutoScreenshot bool      `mapstructure:"auto_screenshot" yaml:"auto_screenshot"`
}

// LLMProvider defines the supported LLM providers.
type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
)

// LLMConfig defines the configuration for the model backing the agent.
type LLMConfig struct {
	Provider          LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model             string        `mapstructure:"model" yaml:"model"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	APITimeout        time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature       float32       `mapstructure:"temperature" yaml:"temperature"`
	TopP              float32       `mapstructure:"top_p" yaml:"top_p"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	RequestsPerMinute float64       `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pagepilot")
	v.SetDefault("logger.log_file", "pagepilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.debug", false)
	v.SetDefault("browser.viewport", map[string]int{"width": 1280, "height": 800})

	// -- Network --
	v.SetDefault("network.navigation_timeout", "45s")
	v.SetDefault("network.post_load_wait", "2s")

	// -- Pacing --
	v.SetDefault("pacing.enabled", true)
	v.SetDefault("pacing.key_delay_mean_ms", 80.0)
	v.SetDefault("pacing.key_delay_jitter_ms", 40.0)
	v.SetDefault("pacing.pause_mean_ms", 400.0)
	v.SetDefault("pacing.pause_stddev_ms", 150.0)

	// -- Agent --
	v.SetDefault("agent.max_turns", 20)
	v.SetDefault("agent.auto_screenshot", false)
	v.SetDefault("agent.llm.provider", "gemini")
	v.SetDefault("agent.llm.model", "gemini-2.5-flash")
	v.SetDefault("agent.llm.api_timeout", "90s")
	v.SetDefault("agent.llm.temperature", 0.2)
	v.SetDefault("agent.llm.top_p", 0.95)
	v.SetDefault("agent.llm.max_tokens", 8192)
	v.SetDefault("agent.llm.requests_per_minute", 10.0)
}

// shadowConfig mirrors Config with exported fields so viper can decode into
// it. Decoding the whole tree at once keeps viper's layered lookup intact:
// defaults, config file, and bound environment variables merge per key.
type shadowConfig struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Browser BrowserConfig `mapstructure:"browser"`
	Network NetworkConfig `mapstructure:"network"`
	Pacing  PacingConfig  `mapstructure:"pacing"`
	Agent   AgentConfig   `mapstructure:"agent"`
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data.
	v.BindEnv("agent.llm.api_key", "PAGEPILOT_AGENT_LLM_API_KEY", "GEMINI_API_KEY")

	var raw shadowConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling configuration: %w", err)
	}
	cfg := Config{
		logger:  raw.Logger,
		browser: raw.Browser,
		network: raw.Network,
		pacing:  raw.Pacing,
		agent:   raw.Agent,
	}

	if cfg.agent.LLM.APIKey == "" {
		cfg.agent.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// A missing API key is deliberately not an error here: startup only warns,
// and the agent loop fails on first use instead.
func (c *Config) Validate() error {
	if c.network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	if c.agent.MaxTurns <= 0 {
		return fmt.Errorf("agent.max_turns must be a positive integer")
	}
	if c.agent.LLM.Model == "" {
		return fmt.Errorf("agent.llm.model is a required configuration field")
	}
	if c.pacing.Enabled {
		if c.pacing.KeyDelayMeanMs < 0 || c.pacing.KeyDelayJitterMs < 0 {
			return fmt.Errorf("pacing key delay values must not be negative")
		}
	}
	return nil
}
