package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port      int              `json:"port"`
	LogConfig logger.LogConfig `json:"log_config"`
	AI        AIConfig         `json:"ai"`
	Store     StoreConfig      `json:"store"`
	Crawl     CrawlConfig      `json:"crawl"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	EmbedDim      int         `json:"embed_dim"`
	Timeout       int         `json:"timeout"`
	MaxInputChars int         `json:"max_input_chars"`
	CacheSize     int         `json:"cache_size"`
	CacheTTLHours int         `json:"cache_ttl_hours"`
	Data          interface{} `json:"data"`
}

type StoreConfig struct {
	Type     string         `json:"type"`
	Redis    RedisConfig    `json:"redis"`
	Postgres PostgresConfig `json:"postgres"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type PostgresConfig struct {
	DSN string `json:"dsn"`
}

type CrawlConfig struct {
	MaxDepth           int `json:"max_depth"`
	MaxPages           int `json:"max_pages"`
	RequestTimeoutSecs int `json:"request_timeout_secs"`
	RateLimitSecs      int `json:"rate_limit_secs"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Data == nil {
		return nil, fmt.Errorf("ai.data is required")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-004"
	}
	if cfg.AI.EmbedDim == 0 {
		cfg.AI.EmbedDim = 768
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 20000
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "redis"
	}
	switch cfg.Store.Type {
	case "redis":
		if cfg.Store.Redis.Address == "" {
			cfg.Store.Redis.Address = "localhost:6379"
		}
	case "postgres":
		if cfg.Store.Postgres.DSN == "" {
			return nil, fmt.Errorf("store.postgres.dsn is required for postgres store")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("store.type must be redis, postgres or memory")
	}
	if cfg.Crawl.MaxDepth == 0 {
		cfg.Crawl.MaxDepth = 2
	}
	if cfg.Crawl.MaxPages == 0 {
		cfg.Crawl.MaxPages = 5
	}
	if cfg.Crawl.RequestTimeoutSecs == 0 {
		cfg.Crawl.RequestTimeoutSecs = 30
	}
	return &cfg, nil
}
