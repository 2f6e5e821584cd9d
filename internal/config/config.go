// Package config handles application configuration using Viper.
// Viper merges defaults, an optional YAML file and environment variables in
// priority order. The result is an immutable Config struct that is built once
// at startup and passed explicitly to every component that needs it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported narrative providers for llm.provider.
const (
	ProviderCohere    = "cohere"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Nutrition  NutritionConfig  `mapstructure:"nutrition"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type CORSConfig struct {
	// AllowedOrigins may contain "*" to allow every origin (credentials are then disabled).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ClassifierConfig points at a Clarifai model. The default is the public
// food-item-recognition model owned by the clarifai user.
type ClassifierConfig struct {
	PAT     string        `mapstructure:"pat"`
	BaseURL string        `mapstructure:"base_url"`
	UserID  string        `mapstructure:"user_id"`
	AppID   string        `mapstructure:"app_id"`
	ModelID string        `mapstructure:"model_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NutritionConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	// Provider selects the narrative backend: cohere, openai or anthropic.
	Provider    string          `mapstructure:"provider"`
	Temperature float64         `mapstructure:"temperature"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	Cohere      CohereConfig    `mapstructure:"cohere"`
	OpenAI      OpenAIConfig    `mapstructure:"openai"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic"`
}

type CohereConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type PredictionConfig struct {
	// MinConfidence is the threshold T: classifications below it are reported
	// as low confidence and never enriched.
	MinConfidence float64 `mapstructure:"min_confidence"`
	// MaxImageEdge is the longest edge (px) sent to the classifier. 0 disables downscaling.
	MaxImageEdge int `mapstructure:"max_image_edge"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// legacyEnv maps config keys to the unprefixed environment variable names of
// earlier deployments, so existing .env files keep working.
var legacyEnv = map[string]string{
	"classifier.pat":            "CLARIFAI_PAT",
	"nutrition.api_key":         "CALORIE_API_KEY",
	"llm.cohere.api_key":        "COHERE_API_KEY",
	"llm.openai.api_key":        "OPENAI_API_KEY",
	"llm.anthropic.api_key":     "ANTHROPIC_API_KEY",
	"prediction.min_confidence": "MIN_CONFIDENCE",
	"cors.allowed_origins":      "ALLOWED_ORIGINS",
	"server.port":               "PORT",
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found": defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// FOODNINJA_ prefix + nested keys: FOODNINJA_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("FOODNINJA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "FOODNINJA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5500",
		"http://127.0.0.1:5500",
		"http://localhost:5000",
		"http://127.0.0.1:5000",
	})
	v.SetDefault("classifier.pat", "")
	v.SetDefault("classifier.base_url", "https://api.clarifai.com")
	v.SetDefault("classifier.user_id", "clarifai")
	v.SetDefault("classifier.app_id", "main")
	v.SetDefault("classifier.model_id", "food-item-recognition")
	v.SetDefault("classifier.timeout", 30*time.Second)
	v.SetDefault("nutrition.api_key", "")
	v.SetDefault("nutrition.base_url", "https://api.calorieninjas.com")
	v.SetDefault("nutrition.timeout", 10*time.Second)
	v.SetDefault("llm.provider", ProviderCohere)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.cohere.api_key", "")
	v.SetDefault("llm.cohere.model", "command-a-03-2025")
	v.SetDefault("llm.cohere.base_url", "https://api.cohere.com")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("prediction.min_confidence", 0.4)
	v.SetDefault("prediction.max_image_edge", 1600)
	v.SetDefault("log.level", "info")
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Prediction.MinConfidence < 0 || c.Prediction.MinConfidence > 1 {
		return fmt.Errorf("prediction.min_confidence must be within [0,1], got %v", c.Prediction.MinConfidence)
	}
	switch c.LLM.Provider {
	case ProviderCohere, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	if c.Classifier.Timeout <= 0 || c.Nutrition.Timeout <= 0 || c.LLM.Timeout <= 0 {
		return errors.New("upstream timeouts must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	return nil
}

// Address returns the listen address string like "0.0.0.0:5000".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WildcardOrigins reports whether CORS should accept any origin.
func (c CORSConfig) WildcardOrigins() bool {
	for _, o := range c.AllowedOrigins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
