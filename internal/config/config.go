// Package config loads the runtime configuration for homelibrary.
//
// A Config is built once at process start (defaults, then an optional YAML
// file, then HOMELIBRARY_* environment variables), validated, and handed to
// each collaborator's constructor. Nothing in the module reads API keys from
// the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const envPrefix = "HOMELIBRARY"

// Config is the immutable process configuration.
type Config struct {
	Server   Server   `mapstructure:"server" yaml:"server"`
	Database Database `mapstructure:"database" yaml:"database"`
	Catalog  Catalog  `mapstructure:"catalog" yaml:"catalog"`
	Covers   Covers   `mapstructure:"covers" yaml:"covers"`
	Vision   Vision   `mapstructure:"vision" yaml:"vision"`
	Uploads  Uploads  `mapstructure:"uploads" yaml:"uploads"`
	Pending  Pending  `mapstructure:"pending" yaml:"pending"`
	Log      Log      `mapstructure:"log" yaml:"log"`
}

type Server struct {
	Port    string `mapstructure:"port" yaml:"port"`
	GinMode string `mapstructure:"gin_mode" yaml:"gin_mode"`
}

type Database struct {
	Driver          string        `mapstructure:"driver" yaml:"driver"`
	DSN             string        `mapstructure:"dsn" yaml:"dsn"`
	ConnectAttempts uint          `mapstructure:"connect_attempts" yaml:"connect_attempts"`
	ConnectDelay    time.Duration `mapstructure:"connect_delay" yaml:"connect_delay"`
}

// Catalog configures the Google Books client.
type Catalog struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	Languages []string      `mapstructure:"languages" yaml:"languages"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Covers configures the image-search cover fallback.
type Covers struct {
	Enabled     bool          `mapstructure:"enabled" yaml:"enabled"`
	SearchURL   string        `mapstructure:"search_url" yaml:"search_url"`
	QuerySuffix string        `mapstructure:"query_suffix" yaml:"query_suffix"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Vision selects and configures the image-understanding model.
type Vision struct {
	Provider      string        `mapstructure:"provider" yaml:"provider"`
	Model         string        `mapstructure:"model" yaml:"model"`
	Temperature   float64       `mapstructure:"temperature" yaml:"temperature"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	OllamaURL     string        `mapstructure:"ollama_url" yaml:"ollama_url"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Uploads struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// Pending configures the URL-resolution confirmation window.
type Pending struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from defaults, the optional config file and the
// environment. An empty cfgFile searches ./homelibrary.yaml and
// ~/.config/homelibrary/config.yaml; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("homelibrary")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "homelibrary"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindLegacyEnv keeps the unprefixed variable names used by the Google and
// OpenAI tooling working alongside the HOMELIBRARY_* names.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("catalog.api_key", "HOMELIBRARY_CATALOG_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("vision.gemini_api_key", "HOMELIBRARY_VISION_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("vision.openai_api_key", "HOMELIBRARY_VISION_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("vision.ollama_url", "HOMELIBRARY_VISION_OLLAMA_URL", "OLLAMA_URL", "OLLAMA_HOST")
}

func (c *Config) normalize() {
	c.Vision.Provider = strings.ToLower(strings.TrimSpace(c.Vision.Provider))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Vision.Model == "" {
		c.Vision.Model = DefaultModel(c.Vision.Provider)
	}
	langs := make([]string, 0, len(c.Catalog.Languages))
	for _, l := range c.Catalog.Languages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	c.Catalog.Languages = langs
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch c.Vision.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unsupported vision provider: %q", c.Vision.Provider)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	for _, l := range c.Catalog.Languages {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("invalid catalog language %q: %w", l, err)
		}
	}
	if c.Pending.TTL <= 0 {
		return errors.New("pending.ttl must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("uploads.max_bytes must be positive")
	}
	return nil
}

// LanguageRestrict renders the catalog language set in the form the Google
// Books langRestrict parameter expects.
func (c Catalog) LanguageRestrict() string {
	return strings.Join(c.Languages, ",")
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.5-flash-lite"
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.Catalog.APIKey = mask(c.Catalog.APIKey)
	c.Vision.GeminiAPIKey = mask(c.Vision.GeminiAPIKey)
	c.Vision.OpenAIAPIKey = mask(c.Vision.OpenAIAPIKey)
	if c.Database.Driver == "postgres" {
		c.Database.DSN = mask(c.Database.DSN)
	}
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
