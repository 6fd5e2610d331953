package config

import (
	"fmt"
	"os"
	"strconv"
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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	TwelveData struct {
		APIKey    string        `yaml:"api_key"`
		BaseURL   string        `yaml:"base_url"`
		Exchanges []string      `yaml:"exchanges"`
		Timeout   time.Duration `yaml:"timeout"`
		// Training fetches from TrainingStart up to InferenceEnd; inference
		// re-fetches the fixed InferenceStart..InferenceEnd window carried
		// over from the original service.
		TrainingStart  string `yaml:"training_start"`
		InferenceStart string `yaml:"inference_start"`
		InferenceEnd   string `yaml:"inference_end"`
	} `yaml:"twelvedata"`
	Backend struct {
		URL      string        `yaml:"url"`
		APIToken string        `yaml:"api_token"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Models struct {
		Backend string `yaml:"backend"` // file, redis or memory
		Dir     string `yaml:"dir"`
	} `yaml:"models"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Training struct {
		Rounds              int     `yaml:"rounds"`
		LearningRate        float64 `yaml:"learning_rate"`
		MaxDepth            int     `yaml:"max_depth"`
		Subsample           float64 `yaml:"subsample"`
		ColSample           float64 `yaml:"colsample"`
		Seed                int64   `yaml:"seed"`
		EarlyStoppingRounds int     `yaml:"early_stopping_rounds"`
	} `yaml:"training"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Credentials are expected to arrive via env (or a .env file) rather than YAML.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv("BACKEND_API_TOKEN"); v != "" {
		c.Backend.APIToken = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("MODELS_DIR"); v != "" {
		c.Models.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("EXCHANGES"); v != "" {
		c.TwelveData.Exchanges = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &c, nil
}

// Validate checks if the configuration is valid. A missing credential is a
// startup defect, not a per-request condition.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.TwelveData.APIKey == "" {
		return fmt.Errorf("twelvedata.api_key is required (TWELVE_DATA_API_KEY)")
	}
	if c.Backend.APIToken == "" {
		return fmt.Errorf("backend.api_token is required (BACKEND_API_TOKEN)")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	switch c.Models.Backend {
	case "file", "redis", "memory":
	case "":
		return fmt.Errorf("models.backend is required")
	default:
		return fmt.Errorf("models.backend must be 'file', 'redis' or 'memory', got '%s'", c.Models.Backend)
	}
	if c.Models.Backend == "file" && c.Models.Dir == "" {
		return fmt.Errorf("models.dir is required for the file backend")
	}
	if c.Models.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	if len(c.TwelveData.Exchanges) == 0 {
		return fmt.Errorf("twelvedata.exchanges cannot be empty")
	}
	return nil
}
