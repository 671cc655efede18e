package config

import (
	"errors"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string `yaml:"env"`
	LogLevel       string `yaml:"log_level"`
	Port           string `yaml:"port"`
	StorageBackend string `yaml:"storage_backend"` // "file" or "postgres"
	PostgresDSN    string `yaml:"postgres_dsn"`
	DataFile       string `yaml:"data_file"`
	JWTSecret      string `yaml:"jwt_secret"`
	JWTIssuer      string `yaml:"jwt_issuer"`
	CORSOrigins    string `yaml:"cors_origins"` // comma separated
	OpenAI         OpenAI `yaml:"openai"`
}

// OpenAI configures the external writing assistant. Enabled is decided
// once here; callers never re-check the environment per request.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

func (o OpenAI) Enabled() bool { return o.APIKey != "" }

var (
	cfg  *Config
	once sync.Once
)

// Load reads config.yaml when present, then applies environment
// overrides. Cached for the life of the process.
func Load() *Config {
	once.Do(func() {
		cfg = defaults()
		_ = loadYAML("config.yaml", cfg)
		overrideFromEnv(cfg)
		if err := cfg.Validate(); err != nil {
			panic("invalid config: " + err.Error())
		}
	})
	return cfg
}

func defaults() *Config {
	return &Config{
		Env:            "development",
		LogLevel:       "info",
		Port:           "8080",
		StorageBackend: "file",
		DataFile:       "data/stackhabit.json",
		JWTIssuer:      "stackhabit",
		CORSOrigins:    "http://localhost:5173,http://localhost:3000",
		OpenAI: OpenAI{
			Model:   "gpt-3.5-turbo",
			BaseURL: "https://api.openai.com/v1/chat/completions",
		},
	}
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewDecoder(f).Decode(cfg)
}

func overrideFromEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Env, "APP_ENV")
	set(&cfg.LogLevel, "LOG_LEVEL")
	set(&cfg.Port, "PORT")
	set(&cfg.StorageBackend, "STORAGE_BACKEND")
	set(&cfg.PostgresDSN, "POSTGRES_DSN")
	set(&cfg.DataFile, "DATA_FILE")
	set(&cfg.JWTSecret, "JWT_KEY")
	set(&cfg.JWTIssuer, "JWT_ISSUER")
	set(&cfg.CORSOrigins, "CORS_ORIGINS")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
}

func (c *Config) Validate() error {
	if c.StorageBackend == "postgres" && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == "file" && c.DataFile == "" {
		return errors.New("file storage requires DATA_FILE to be set")
	}
	if c.StorageBackend != "file" && c.StorageBackend != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_KEY is required")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}
