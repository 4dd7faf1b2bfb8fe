package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // storefront
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Auth struct {
	JWTSecret string `yaml:"jwtSecret"`
	TokenTTL  string `yaml:"tokenTTL"` // "24h"
}

type LLM struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"` // gemini-1.5-flash
}

type Mob struct {
	Duration string `yaml:"duration"` // "15m"
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Mongo    Mongo    `yaml:"mongo"`
	Redis    Redis    `yaml:"redis"`
	Auth     Auth     `yaml:"auth"`
	LLM      LLM      `yaml:"llm"`
	Mob      Mob      `yaml:"mob"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	// секреты приходят из окружения через ${VAR}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Mongo.Database == "" {
		c.Mongo.Database = "storefront"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "24h"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-1.5-flash"
	}
	if c.Mob.Duration == "" {
		c.Mob.Duration = "15m"
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "storefront"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

// TokenTTLOr парсит auth.tokenTTL с дефолтом.
func (c *Config) TokenTTLOr(def time.Duration) time.Duration {
	return parseDurationOr(def, c.Auth.TokenTTL)
}

// MobDurationOr парсит mob.duration с дефолтом.
func (c *Config) MobDurationOr(def time.Duration) time.Duration {
	return parseDurationOr(def, c.Mob.Duration)
}

func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
