package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8888")
	v.SetDefault("server.gin_mode", "debug")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "homelibrary.db")
	v.SetDefault("database.connect_attempts", 10)
	v.SetDefault("database.connect_delay", 2*time.Second)

	v.SetDefault("catalog.base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.languages", []string{"it", "en"})
	v.SetDefault("catalog.timeout", 30*time.Second)

	v.SetDefault("covers.enabled", true)
	v.SetDefault("covers.search_url", "https://www.google.com/search")
	v.SetDefault("covers.query_suffix", "libro copertina")
	v.SetDefault("covers.user_agent", desktopUserAgent)
	v.SetDefault("covers.timeout", 30*time.Second)

	v.SetDefault("vision.provider", "gemini")
	v.SetDefault("vision.model", "")
	v.SetDefault("vision.temperature", 0.1)
	v.SetDefault("vision.gemini_api_key", "")
	v.SetDefault("vision.openai_api_key", "")
	v.SetDefault("vision.openai_base_url", "")
	v.SetDefault("vision.ollama_url", "http://localhost:11434")
	v.SetDefault("vision.timeout", 120*time.Second)

	v.SetDefault("uploads.dir", filepath.Join(os.TempDir(), "homelibrary-uploads"))
	v.SetDefault("uploads.max_bytes", 10*1024*1024)

	v.SetDefault("pending.ttl", 15*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration produced by Load with no file and an
// empty environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	cfg.normalize()
	return &cfg
}
