package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	API     APIConfig     `json:"api"`
	Store   StoreConfig   `json:"store"`
	Redis   RedisConfig   `json:"redis"`
	Metrics MetricsConfig `json:"metrics"`
	Payment PaymentConfig `json:"payment"`
}

type APIConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type StoreConfig struct {
	// Backend selects the durable scope implementation: file, memory or redis.
	Backend  string `json:"backend"`
	FilePath string `json:"file_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

type PaymentConfig struct {
	ProcessingSeconds int `json:"processing_seconds"`
	SuccessSeconds    int `json:"success_seconds"`
}

// ProcessingDelay returns the configured simulated processing wait. Zero or
// negative values fall back to the default.
func (c PaymentConfig) ProcessingDelay() time.Duration {
	if c.ProcessingSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ProcessingSeconds) * time.Second
}

// SuccessDelay returns the configured success-screen wait before the
// completion callback fires.
func (c PaymentConfig) SuccessDelay() time.Duration {
	if c.SuccessSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.SuccessSeconds) * time.Second
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Backend:  "file",
			FilePath: "marketclient.json",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
		},
		Payment: PaymentConfig{
			ProcessingSeconds: 5,
			SuccessSeconds:    3,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnv()
			return config, nil
		}
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

// applyEnv lets environment variables (typically loaded from .env) override
// the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("MARKET_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("MARKET_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("MARKET_STORE_FILE"); v != "" {
		c.Store.FilePath = v
	}
	if v := os.Getenv("MARKET_REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("MARKET_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = port
		}
	}
	if v := os.Getenv("MARKET_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MARKET_METRICS_ADDR"); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Addr = v
	}
}
