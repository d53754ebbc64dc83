package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server          ServerConfig              `json:"server"`
	Providers       map[string]ProviderConfig `json:"providers"`
	DefaultProvider string                    `json:"default_provider"`
	Extractor       ExtractorConfig           `json:"extractor"`
	Engine          EngineConfig              `json:"engine"`
	Session         SessionConfig             `json:"session"`
	Upload          UploadConfig              `json:"upload"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	CORSOrigins string `json:"cors_origins"`
	StaticDir   string `json:"static_dir"`
	TempDir     string `json:"temp_dir"`
}

type ProviderConfig struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model"`
}

type ExtractorConfig struct {
	// Backend selects the PDF extractor: "fitz" (text + page rasters) or
	// "native" (pure Go, text only).
	Backend string  `json:"backend"`
	DPI     float64 `json:"dpi"`
}

type EngineConfig struct {
	BlockSize                int `json:"block_size"`
	MaxConcurrentGenerations int `json:"max_concurrent_generations"`
	SummaryTimeoutSecs       int `json:"summary_timeout_secs"`
	QueryTimeoutSecs         int `json:"query_timeout_secs"`
	GeneralTimeoutSecs       int `json:"general_timeout_secs"`
	AdvanceIntervalSecs      int `json:"advance_interval_secs"`
}

type SessionConfig struct {
	TTLSecs           int `json:"ttl_secs"`
	SweepIntervalSecs int `json:"sweep_interval_secs"`
}

type UploadConfig struct {
	MaxBytes int `json:"max_bytes"`
}

func (e EngineConfig) SummaryTimeout() time.Duration {
	return time.Duration(e.SummaryTimeoutSecs) * time.Second
}

func (e EngineConfig) QueryTimeout() time.Duration {
	return time.Duration(e.QueryTimeoutSecs) * time.Second
}

func (e EngineConfig) GeneralTimeout() time.Duration {
	return time.Duration(e.GeneralTimeoutSecs) * time.Second
}

func (e EngineConfig) AdvanceInterval() time.Duration {
	return time.Duration(e.AdvanceIntervalSecs) * time.Second
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSecs) * time.Second
}

func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSecs) * time.Second
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".briefly"))
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine, defaults plus env are enough.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.cors_origins", "*")
	viper.SetDefault("server.static_dir", "./static")
	viper.SetDefault("server.temp_dir", "./temp")

	viper.SetDefault("default_provider", "gemini")
	viper.SetDefault("providers", map[string]interface{}{
		"gemini": map[string]interface{}{
			"type":  "gemini",
			"name":  "Gemini",
			"model": "gemini-1.5-flash",
		},
		"openai": map[string]interface{}{
			"type":  "openai",
			"name":  "OpenAI",
			"model": "gpt-4o-mini",
		},
	})

	viper.SetDefault("extractor.backend", "fitz")
	viper.SetDefault("extractor.dpi", 96.0)

	viper.SetDefault("engine.block_size", 3)
	viper.SetDefault("engine.max_concurrent_generations", 1)
	viper.SetDefault("engine.summary_timeout_secs", 60)
	viper.SetDefault("engine.query_timeout_secs", 60)
	viper.SetDefault("engine.general_timeout_secs", 30)
	viper.SetDefault("engine.advance_interval_secs", 15)

	viper.SetDefault("session.ttl_secs", 3600)
	viper.SetDefault("session.sweep_interval_secs", 3600)

	viper.SetDefault("upload.max_bytes", 50*1024*1024)
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("BRIEFLY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("BRIEFLY_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}
	if provider := os.Getenv("BRIEFLY_PROVIDER"); provider != "" {
		cfg.DefaultProvider = provider
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if p, ok := cfg.Providers["gemini"]; ok {
			p.APIKey = key
			cfg.Providers["gemini"] = p
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, ok := cfg.Providers["openai"]; ok {
			p.APIKey = key
			cfg.Providers["openai"] = p
		}
	}
}

// validate checks startup-fatal conditions: the selected provider must exist
// and carry a credential before the server accepts traffic.
func validate(cfg *Config) error {
	p, ok := cfg.Providers[cfg.DefaultProvider]
	if !ok {
		return fmt.Errorf("default provider %q is not configured", cfg.DefaultProvider)
	}
	if p.Type != "stub" && p.APIKey == "" {
		return fmt.Errorf("provider %q has no API key configured", cfg.DefaultProvider)
	}
	return nil
}
