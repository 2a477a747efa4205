// Package config loads analyzer settings from an optional YAML file and the
// environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-pro"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	GoogleAPIKey       string        `yaml:"googleApiKey"`
	PromptTemplatePath string        `yaml:"promptTemplatePath"`
	RequestTimeout     time.Duration `yaml:"requestTimeout"`
	AcceptedTypes      []string      `yaml:"acceptedTypes"`
	LogLevel           string        `yaml:"logLevel"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"openai"`

	R2 struct {
		AccountID string `yaml:"accountId"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"r2"`

	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

func defaults() *Config {
	return &Config{
		Provider:      ProviderGemini,
		AcceptedTypes: []string{"application/pdf"},
		LogLevel:      "info",
	}
}

// Load reads path (skipped when empty) and then the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("PROVIDER", &c.Provider)
	str("MODEL", &c.Model)
	str("GOOGLE_API_KEY", &c.GoogleAPIKey)
	str("OPENAI_API_KEY", &c.OpenAI.APIKey)
	str("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	str("PROMPT_TEMPLATE_PATH", &c.PromptTemplatePath)
	str("LOG_LEVEL", &c.LogLevel)
	str("R2_ACCOUNT_ID", &c.R2.AccountID)
	str("R2_BUCKET", &c.R2.Bucket)
	str("R2_ACCESS_KEY", &c.R2.AccessKey)
	str("R2_SECRET_KEY", &c.R2.SecretKey)
	str("RABBITMQ_URL", &c.RabbitMQ.URL)
	str("RABBITMQ_EXCHANGE", &c.RabbitMQ.Exchange)

	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	if v := getenv("ACCEPTED_TYPES"); v != "" {
		var types []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		c.AcceptedTypes = types
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			errs = append(errs, errors.New("empty GOOGLE_API_KEY"))
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("empty OPENAI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("negative request timeout"))
	}
	if len(c.AcceptedTypes) == 0 {
		errs = append(errs, errors.New("no accepted file types"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HasR2 reports whether object storage credentials are configured.
func (c *Config) HasR2() bool {
	return c.R2.AccessKey != "" && c.R2.SecretKey != ""
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}
