package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all server configuration.
type Config struct {
	ServerAddr     string         `mapstructure:"server_addr"`
	AllowedOrigins []string       `mapstructure:"allowed_origins"`
	JWTSecret      string         `mapstructure:"jwt_secret"`
	RedisAddr      string         `mapstructure:"redis_addr"`
	Database       DatabaseConfig `mapstructure:"database"`
	Gemini         GeminiConfig   `mapstructure:"gemini"`
	Quiz           QuizConfig     `mapstructure:"quiz"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// GeminiConfig points at the hosted generative-language API.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// QuizConfig carries the attempt rules applied on submission.
type QuizConfig struct {
	MaxAttempts       int `mapstructure:"max_attempts"`
	PassThreshold     int `mapstructure:"pass_threshold"`
	ProgressIncrement int `mapstructure:"progress_increment"`
}

// Load reads config.yaml if present and overrides with LEARNHUB_* env vars.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("server_addr", ":8080")
	viper.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("jwt_secret", "change-me")
	viper.SetDefault("redis_addr", "localhost:6379")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "learnhub")
	viper.SetDefault("database.password", "learnhub")
	viper.SetDefault("database.name", "learnhub")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("quiz.max_attempts", 3)
	viper.SetDefault("quiz.pass_threshold", 70)
	viper.SetDefault("quiz.progress_increment", 20)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	viper.SetEnvPrefix("LEARNHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
