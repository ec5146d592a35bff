// Package config loads agenthub configuration from a YAML file and the
// environment via viper. Environment variables override file values using
// the AGENTHUB_ prefix (AGENTHUB_PROVIDERS_OPENAI_API_KEY and so on).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Providers struct {
		Gemini struct {
			APIKey string `mapstructure:"api_key"`
		} `mapstructure:"gemini"`
		OpenAI struct {
			APIKey string `mapstructure:"api_key"`
		} `mapstructure:"openai"`
		Anthropic struct {
			APIKey string `mapstructure:"api_key"`
		} `mapstructure:"anthropic"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"providers"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// Load reads the configuration from config.yaml (working directory or
// ./config) merged with environment overrides. A missing file is not an
// error; defaults plus the environment are enough to run.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("AGENTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	// Defaults make the keys visible to Unmarshal even when only the
	// environment supplies them.
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.timeout", 30*time.Second)
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
