package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StorageBackendFile   = "file"
	StorageBackendMySQL  = "mysql"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Gemini     ProviderConfig   `mapstructure:"gemini"`
	OpenAI     ProviderConfig   `mapstructure:"openai"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Outputs    OutputsConfig    `mapstructure:"outputs"`
	Server     ServerConfig     `mapstructure:"server"`
}

type GenerationConfig struct {
	Provider        string  `mapstructure:"provider" validate:"oneof=gemini openai"`
	Temperature     float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopK            int     `mapstructure:"top_k" validate:"gte=0"`
	TopP            float64 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"gt=0"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// QuizConfig holds the passing thresholds as integer percentages and the per-question time budget.
type QuizConfig struct {
	SubtopicPassingScore     int `mapstructure:"subtopic_passing_score" validate:"gte=0,lte=100"`
	FinalPassingScore        int `mapstructure:"final_passing_score" validate:"gte=0,lte=100"`
	QuestionTimeLimitSeconds int `mapstructure:"question_time_limit_seconds" validate:"gt=0"`
}

type StorageConfig struct {
	Backend         string         `mapstructure:"backend" validate:"oneof=file mysql redis memory"`
	Directory       string         `mapstructure:"directory" validate:"required_if=Backend file"`
	Database        DatabaseConfig `mapstructure:"database"`
	Redis           RedisConfig    `mapstructure:"redis"`
	ConnectAttempts uint           `mapstructure:"connect_attempts" validate:"gte=1"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type TemplatesConfig struct {
	CourseTemplate string `mapstructure:"course_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	Directory string `mapstructure:"directory"`
}

type ServerConfig struct {
	Address string     `mapstructure:"address"`
	CORS    CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/learnai")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Load reads configFile, or config.yml from the default locations when it is empty.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("generation.provider", ProviderGemini)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.top_k", 40)
	v.SetDefault("generation.top_p", 0.95)
	v.SetDefault("generation.max_output_tokens", 8192)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("quiz.subtopic_passing_score", 80)
	v.SetDefault("quiz.final_passing_score", 60)
	v.SetDefault("quiz.question_time_limit_seconds", 30)
	v.SetDefault("storage.backend", StorageBackendFile)
	v.SetDefault("storage.directory", filepath.Join("data"))
	v.SetDefault("storage.connect_attempts", 3)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 3306)
	v.SetDefault("storage.database.database", "learnai")
	v.SetDefault("storage.database.username", "learnai")
	v.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	v.SetDefault("storage.redis.key_prefix", "learnai:")
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.course_template", "")
	v.SetDefault("outputs.directory", filepath.Join("outputs"))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})

	// Bind API keys to environment variables only (not from config file)
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}

	// Bind storage secrets to environment variables
	if err := v.BindEnv("storage.database.password", "LEARNAI_DATABASE_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LEARNAI_DATABASE_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("storage.redis.url", "LEARNAI_REDIS_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind LEARNAI_REDIS_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Provider returns the settings of the configured content producer.
func (cfg Config) Provider() ProviderConfig {
	if cfg.Generation.Provider == ProviderOpenAI {
		return cfg.OpenAI
	}
	return cfg.Gemini
}
