package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// AIConfig configures the hosted completion service.
// APIKey is only ever read from the TOGETHER_API_KEY environment variable.
type AIConfig struct {
	APIKey           string  `mapstructure:"api_key"`
	BaseURL          string  `mapstructure:"base_url"`
	Model            string  `mapstructure:"model"`
	Temperature      float32 `mapstructure:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	TopP             float32 `mapstructure:"top_p"`
	MaxRetries       int     `mapstructure:"max_retries"`
	RetryBaseMs      int     `mapstructure:"retry_base_ms"`
	ChatHistoryLimit int     `mapstructure:"chat_history_limit"`
}

// MailConfig configures the transactional mail service.
// APIKey is only ever read from the RESEND_API_KEY environment variable.
type MailConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	From    string `mapstructure:"from"`
}

type AppSubConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	AI       AIConfig       `mapstructure:"ai"`
	Mail     MailConfig     `mapstructure:"mail"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. GM_SERVER_PORT=9000
		v.SetEnvPrefix("GM")
		v.AutomaticEnv()

		// service credentials come from the environment, never the config file
		_ = v.BindEnv("ai.api_key", "TOGETHER_API_KEY")
		_ = v.BindEnv("mail.api_key", "RESEND_API_KEY")

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.base_url", "https://api.together.xyz/v1")
	v.SetDefault("ai.model", "lgai/exaone-deep-32b")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("ai.top_p", 0.95)
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.retry_base_ms", 1000)
	v.SetDefault("ai.chat_history_limit", 10)
	v.SetDefault("mail.base_url", "https://api.resend.com")
	v.SetDefault("mail.from", "Good Money <noreply@resend.dev>")
	v.SetDefault("app.page_size", 20)
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
