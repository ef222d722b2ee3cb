package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	News      NewsConfig      `mapstructure:"news"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Random    RandomConfig    `mapstructure:"random"`
	Log       LogConfig       `mapstructure:"log"`
}

// KnowledgeConfig selects where the knowledge base is loaded from. Source is
// a file path or http(s) URL; it is ignored when Driver is set.
type KnowledgeConfig struct {
	Source      string        `mapstructure:"source"`
	Driver      string        `mapstructure:"driver"`
	DSN         string        `mapstructure:"dsn"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type NewsConfig struct {
	Provider string `mapstructure:"provider"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type RandomConfig struct {
	Seed int64 `mapstructure:"seed"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

const (
	NewsStatic = "static"
	NewsOpenAI = "openai"
)

// LoadConfig reads path (if it exists), a .env file in the working directory
// (if any) and the environment. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set default values
	v.SetDefault("knowledge.source", "jarvis_data.json")
	v.SetDefault("knowledge.driver", "")
	v.SetDefault("knowledge.dsn", "")
	v.SetDefault("knowledge.load_timeout", 30*time.Second)
	v.SetDefault("telegram.token", "")
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("news.provider", NewsStatic)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 60)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("random.seed", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// Enable environment variable support, e.g. HTTP_ADDR for http.addr
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		config.Knowledge.Driver = "postgres"
		config.Knowledge.DSN = dbURL
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func (c *Config) Validate() error {
	switch c.News.Provider {
	case NewsStatic, NewsOpenAI:
	default:
		return fmt.Errorf("unknown news provider %q", c.News.Provider)
	}
	if c.News.Provider == NewsOpenAI && c.OpenAI.APIKey == "" {
		return errors.New("news provider openai requires openai.api_key")
	}
	if c.Knowledge.Driver == "" && c.Knowledge.Source == "" {
		return errors.New("knowledge.source or knowledge.driver must be set")
	}
	if c.Knowledge.Driver != "" && c.Knowledge.DSN == "" {
		return fmt.Errorf("knowledge.driver %q requires knowledge.dsn", c.Knowledge.Driver)
	}
	return nil
}
