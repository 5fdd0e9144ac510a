package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Booking BookingConfig `yaml:"booking"`
	Log     LogConfig     `yaml:"log"`
	Demo    DemoConfig    `yaml:"demo"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerFile string   `yaml:"swagger_file"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	SearchDelayMillis      int `yaml:"search_delay_ms"`
	SettlementDelayMillis  int `yaml:"settlement_delay_ms"`
	HoldTTLMinutes         int `yaml:"hold_ttl_minutes"`
	ExpirationSweepSeconds int `yaml:"expiration_sweep_seconds"`
}

func (b BookingConfig) SearchDelay() time.Duration {
	return time.Duration(b.SearchDelayMillis) * time.Millisecond
}

func (b BookingConfig) SettlementDelay() time.Duration {
	return time.Duration(b.SettlementDelayMillis) * time.Millisecond
}

func (b BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLMinutes) * time.Minute
}

func (b BookingConfig) ExpirationSweep() time.Duration {
	return time.Duration(b.ExpirationSweepSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DemoConfig struct {
	SeedProfile bool `yaml:"seed_profile"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			SwaggerFile: "api/openapi.json",
			CORSOrigins: []string{"*"},
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			BookingEventsTopic: "booking-events",
			GroupID:            "bustrip-notifier",
		},
		Booking: BookingConfig{
			SearchDelayMillis:      1500,
			SettlementDelayMillis:  3000,
			HoldTTLMinutes:         15,
			ExpirationSweepSeconds: 60,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnv reads a dotenv file into the process environment. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SETTLEMENT_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Booking.SettlementDelayMillis = ms
		}
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.HTTP.Address == "" {
		c.HTTP.Address = def.HTTP.Address
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = def.Kafka.BookingEventsTopic
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = def.Kafka.GroupID
	}
	if c.Booking.HoldTTLMinutes <= 0 {
		c.Booking.HoldTTLMinutes = def.Booking.HoldTTLMinutes
	}
	if c.Booking.ExpirationSweepSeconds <= 0 {
		c.Booking.ExpirationSweepSeconds = def.Booking.ExpirationSweepSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

func (c *Config) Validate() error {
	if c.Booking.SearchDelayMillis < 0 {
		return fmt.Errorf("config: booking.search_delay_ms must not be negative")
	}
	if c.Booking.SettlementDelayMillis < 0 {
		return fmt.Errorf("config: booking.settlement_delay_ms must not be negative")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	return nil
}
