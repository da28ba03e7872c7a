// Package config loads agent and CLI settings: built-in defaults, then an
// optional YAML file, then environment variables (.env is honored).
package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "PRESENCE_CONFIG"

	defaultAttendanceBaseURL = "https://api.peppypresence.com:5003/api"
	defaultAuthBaseURL       = "http://localhost:5002/api"
	defaultPort              = "3000"
	defaultEnv               = "development"
	defaultCredentialDir     = ".presence"
	defaultKafkaTopic        = "presence.attendance.punch.v1"
)

const (
	CredentialSecure = "secure"
	CredentialPlain  = "plain"
	CredentialRedis  = "redis"
	CredentialMemory = "memory"

	LocationStatic = "static"
	LocationHTTP   = "http"
)

type Config struct {
	Env               string           `yaml:"env"`
	Port              string           `yaml:"port"`
	AttendanceBaseURL string           `yaml:"attendance_base_url"`
	AuthBaseURL       string           `yaml:"auth_base_url"`
	HTTPTimeout       time.Duration    `yaml:"http_timeout"`
	JWTSecret         string           `yaml:"jwt_secret"`
	TokenTTL          time.Duration    `yaml:"token_ttl"`
	Credential        CredentialConfig `yaml:"credential"`
	Location          LocationConfig   `yaml:"location"`
	Redis             RedisConfig      `yaml:"redis"`
	Database          DatabaseConfig   `yaml:"database"`
	Kafka             KafkaConfig      `yaml:"kafka"`
}

type CredentialConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Key     string `yaml:"key"` // hex encoded AES-256 key for the secure backend
}

type LocationConfig struct {
	Mode      string        `yaml:"mode"`
	Consent   bool          `yaml:"consent"`
	Latitude  *float64      `yaml:"latitude"`
	Longitude *float64      `yaml:"longitude"`
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr    string        `yaml:"addr"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether a journal database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != "" && d.Name != ""
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

func Default() Config {
	return Config{
		Env:               defaultEnv,
		Port:              defaultPort,
		AttendanceBaseURL: defaultAttendanceBaseURL,
		AuthBaseURL:       defaultAuthBaseURL,
		HTTPTimeout:       10 * time.Second,
		TokenTTL:          24 * time.Hour,
		Credential: CredentialConfig{
			Backend: CredentialSecure,
			Dir:     defaultCredentialDir,
		},
		Location: LocationConfig{
			Mode:    LocationStatic,
			Timeout: 15 * time.Second,
		},
		Redis: RedisConfig{
			LockTTL: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{
			Topic: defaultKafkaTopic,
		},
	}
}

// Load reads .env, the YAML file named by PRESENCE_CONFIG (if any) and the
// environment, then validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(EnvConfigPath)); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.Port, "PORT")
	setString(&c.AttendanceBaseURL, "ATTENDANCE_BASE_URL")
	setString(&c.AuthBaseURL, "AUTH_BASE_URL")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.Credential.Backend, "CREDENTIAL_BACKEND")
	setString(&c.Credential.Dir, "CREDENTIAL_DIR")
	setString(&c.Credential.Key, "CREDENTIAL_KEY")
	setString(&c.Location.Mode, "LOCATION_MODE")
	setString(&c.Location.URL, "LOCATION_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Kafka.Broker, "KAFKA_BROKER")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")

	durations := map[string]*time.Duration{
		"HTTP_TIMEOUT":     &c.HTTPTimeout,
		"TOKEN_TTL":        &c.TokenTTL,
		"LOCATION_TIMEOUT": &c.Location.Timeout,
		"PUNCH_LOCK_TTL":   &c.Redis.LockTTL,
	}
	for key, dst := range durations {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	if err := setBool(&c.Location.Consent, "LOCATION_CONSENT"); err != nil {
		return err
	}
	if err := setFloat(&c.Location.Latitude, "LOCATION_LATITUDE"); err != nil {
		return err
	}
	return setFloat(&c.Location.Longitude, "LOCATION_LONGITUDE")
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Validate() error {
	for name, raw := range map[string]string{
		"attendance_base_url": c.AttendanceBaseURL,
		"auth_base_url":       c.AuthBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: %s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive")
	}

	switch c.Credential.Backend {
	case CredentialSecure:
		key, err := hex.DecodeString(c.Credential.Key)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("config: credential.key must be 64 hex characters for the secure backend")
		}
	case CredentialPlain, CredentialMemory:
	case CredentialRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required for the redis credential backend")
		}
	default:
		return fmt.Errorf("config: unknown credential backend %q", c.Credential.Backend)
	}

	switch c.Location.Mode {
	case LocationStatic:
	case LocationHTTP:
		if c.Location.URL == "" {
			return fmt.Errorf("config: location.url is required for the http location mode")
		}
	default:
		return fmt.Errorf("config: unknown location mode %q", c.Location.Mode)
	}

	return nil
}

// CredentialKey returns the decoded secure-store key. Validate has already checked it.
func (c Config) CredentialKey() []byte {
	key, _ := hex.DecodeString(c.Credential.Key)
	return key
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setFloat(dst **float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = &f
	return nil
}
