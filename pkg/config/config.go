package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Data struct {
		Backend         string        `yaml:"backend"` // csv, clickhouse or memory
		Dir             string        `yaml:"dir"`
		Freshness       time.Duration `yaml:"freshness"`
		MinRefreshAge   time.Duration `yaml:"min_refresh_age"`
		InitialLookback time.Duration `yaml:"initial_lookback"`
		BackfillBack    time.Duration `yaml:"backfill_back"`
		BackfillForward time.Duration `yaml:"backfill_forward"`
	} `yaml:"data"`
	Binance struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		PageLimit int           `yaml:"page_limit"`
		PageDelay time.Duration `yaml:"page_delay"`
	} `yaml:"binance"`
	Engine struct {
		Intervals []string `yaml:"intervals"`
	} `yaml:"engine"`
	ViewCache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"view_cache"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("DATA_BACKEND"); v != "" {
		c.Data.Backend = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Binance.BaseURL = v
	}
	if v := os.Getenv("INTERVALS"); v != "" {
		c.Engine.Intervals = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.ViewCache.Redis.Host = v
	}

	return c, nil
}

// applyDefaults fills in the fixed engine constants where the file left them
// unset. The numeric values mirror the upstream data pipeline: 24h cache
// expiry, 1h incremental refresh floor, 90d initial download, 30d/1d
// backfill windows, 1000-row pages with a 0.5s pause and a 10s timeout.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Data.Backend == "" {
		c.Data.Backend = "csv"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "."
	}
	if c.Data.Freshness == 0 {
		c.Data.Freshness = 24 * time.Hour
	}
	if c.Data.MinRefreshAge == 0 {
		c.Data.MinRefreshAge = time.Hour
	}
	if c.Data.InitialLookback == 0 {
		c.Data.InitialLookback = 90 * 24 * time.Hour
	}
	if c.Data.BackfillBack == 0 {
		c.Data.BackfillBack = 30 * 24 * time.Hour
	}
	if c.Data.BackfillForward == 0 {
		c.Data.BackfillForward = 24 * time.Hour
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Binance.Timeout == 0 {
		c.Binance.Timeout = 10 * time.Second
	}
	if c.Binance.PageLimit == 0 {
		c.Binance.PageLimit = 1000
	}
	if c.Binance.PageDelay == 0 {
		c.Binance.PageDelay = 500 * time.Millisecond
	}
	if len(c.Engine.Intervals) == 0 {
		c.Engine.Intervals = []string{"15m", "1h", "4h", "1d"}
	}
	if c.ViewCache.TTL == 0 {
		c.ViewCache.TTL = 5 * time.Minute
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Data.Backend {
	case "csv", "clickhouse", "memory":
	default:
		return fmt.Errorf("data.backend must be 'csv', 'clickhouse' or 'memory', got '%s'", c.Data.Backend)
	}
	if c.Data.Backend == "csv" && c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required for the csv backend")
	}
	if c.Data.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse backend")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	return nil
}
