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
	Server    ServerConfig    `yaml:"server"`
	REST      RESTConfig      `yaml:"rest"`
	Security  SecurityConfig  `yaml:"security"`
	Logging   LoggingConfig   `yaml:"logging"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// RESTConfig points at the reservation backend.
type RESTConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SecurityConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	JWTPublicKey string `yaml:"jwt_public_key"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
	Topics  []string `yaml:"topics"`
}

// RateLimitConfig uses the limiter formatted rate ("100-M"). RedisURL switches the
// store from in-memory to redis. TrustForwardHeader takes the client IP from X-Forwarded-For
// and is only safe behind a proxy that sets it.
type RateLimitConfig struct {
	Rate               string `yaml:"rate"`
	RedisURL           string `yaml:"redis_url"`
	TrustForwardHeader bool   `yaml:"trust_forward_header"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when neither a file nor env vars say otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		REST: RESTConfig{
			BaseURL: "http://localhost:8888/api",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Directory:  "./logs",
			MaxSizeMB:  50,
			MaxBackups: 7,
		},
		Kafka: KafkaConfig{
			GroupID: "hotel-web",
			Topics:  []string{"hotel.reservations.events"},
		},
		RateLimit: RateLimitConfig{Rate: "300-M"},
		Metrics:   MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by CONFIG_FILE
// and finally the process environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.Server.Port, getenv("PORT"))
	setString(&c.REST.BaseURL, getenv("REST_BASE_URL"))
	if raw := strings.TrimSpace(getenv("REST_TIMEOUT")); raw != "" {
		timeout, err := parseDuration(raw)
		if err != nil {
			return fmt.Errorf("REST_TIMEOUT: %w", err)
		}
		c.REST.Timeout = timeout
	}

	setString(&c.Security.JWTSecret, getenv("JWT_SECRET"))
	setString(&c.Security.JWTPublicKey, getenv("JWT_PUBLIC_KEY"))

	setString(&c.Logging.Level, getenv("LOG_LEVEL"))
	setString(&c.Logging.Format, getenv("LOG_FORMAT"))
	setString(&c.Logging.Directory, getenv("LOG_DIR"))
	if err := setInt(&c.Logging.MaxSizeMB, getenv("LOG_MAX_SIZE_MB")); err != nil {
		return fmt.Errorf("LOG_MAX_SIZE_MB: %w", err)
	}
	if err := setInt(&c.Logging.MaxBackups, getenv("LOG_MAX_BACKUPS")); err != nil {
		return fmt.Errorf("LOG_MAX_BACKUPS: %w", err)
	}

	// KAFKA_BROKERS wins over the single-broker variable.
	if brokers := splitList(getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		c.Kafka.Brokers = brokers
	} else if broker := strings.TrimSpace(getenv("KAFKA_BROKER")); broker != "" {
		c.Kafka.Brokers = []string{broker}
	}
	setString(&c.Kafka.GroupID, getenv("KAFKA_GROUP_ID"))
	if topics := splitList(getenv("KAFKA_RESERVATION_TOPICS")); len(topics) > 0 {
		c.Kafka.Topics = topics
	}

	setString(&c.RateLimit.Rate, getenv("RATE_LIMIT"))
	setString(&c.RateLimit.RedisURL, getenv("REDIS_URL"))
	if raw := strings.TrimSpace(getenv("RATE_LIMIT_TRUST_FORWARD_HEADER")); raw != "" {
		trust, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_TRUST_FORWARD_HEADER: %w", err)
		}
		c.RateLimit.TrustForwardHeader = trust
	}

	if raw := strings.TrimSpace(getenv("METRICS_ENABLED")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port %q is not numeric", c.Server.Port)
	}
	if strings.TrimSpace(c.REST.BaseURL) == "" {
		return fmt.Errorf("rest base url is required")
	}
	if c.REST.Timeout < 0 {
		return fmt.Errorf("rest timeout must not be negative")
	}
	return nil
}

func setString(target *string, raw string) {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		*target = trimmed
	}
}

func setInt(target *int, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return err
	}
	*target = value
	return nil
}

// parseDuration accepts Go durations ("15s") and bare seconds ("15").
func parseDuration(raw string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
