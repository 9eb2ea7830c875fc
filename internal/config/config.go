// Package config loads the lunch order service configuration.
//
// Values are layered in this order, later layers winning:
//   - Default()
//   - the YAML file given with --config (optional)
//   - environment variables, after loading a .env file if one exists
//   - command line flags that were explicitly set
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Ordering OrderingConfig `yaml:"ordering"`
	Slack    SlackConfig    `yaml:"slack"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	// Addr is the listen address of the HTTP surface.
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver"`

	// URL is a postgres connection string or a sqlite DSN.
	URL string `yaml:"url"`

	// Timeout bounds every store call, as a Go duration string.
	// Default: 5s
	Timeout string `yaml:"timeout"`
}

type OrderingConfig struct {
	// Timezone is the IANA zone every calendar computation is pinned to.
	Timezone string `yaml:"timezone"`

	OpenHour  int `yaml:"open_hour"`
	CloseHour int `yaml:"close_hour"`

	// AnnounceSchedule and CloseSchedule are standard 5-field cron
	// expressions evaluated in Timezone.
	AnnounceSchedule string `yaml:"announce_schedule"`
	CloseSchedule    string `yaml:"close_schedule"`
}

type SlackConfig struct {
	// BotToken enables the Slack announcer. Announcements are only
	// logged when it is empty.
	BotToken string `yaml:"bot_token"`

	// ChannelID is the only channel orders are accepted from and
	// announced to.
	ChannelID string `yaml:"channel_id"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr: "0.0.0.0:8080",
		},
		Database: DatabaseConfig{
			Driver:  DriverPostgres,
			Timeout: "5s",
		},
		Ordering: OrderingConfig{
			Timezone:         "Asia/Seoul",
			OpenHour:         12,
			CloseHour:        14,
			AnnounceSchedule: "0 12 * * 1-5",
			CloseSchedule:    "0 14 * * 1-5",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile merges the YAML file at path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads path into the process environment without
// overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with the variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &c.HTTP.Addr)
	str("DATABASE_DRIVER", &c.Database.Driver)
	str("DATABASE_URL", &c.Database.URL)
	str("DATABASE_TIMEOUT", &c.Database.Timeout)
	str("ORDER_TIMEZONE", &c.Ordering.Timezone)
	str("ORDER_ANNOUNCE_SCHEDULE", &c.Ordering.AnnounceSchedule)
	str("ORDER_CLOSE_SCHEDULE", &c.Ordering.CloseSchedule)
	str("SLACK_BOT_TOKEN", &c.Slack.BotToken)
	str("SLACK_CHANNEL_ID", &c.Slack.ChannelID)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	for key, dst := range map[string]*int{
		"ORDER_OPEN_HOUR":  &c.Ordering.OpenHour,
		"ORDER_CLOSE_HOUR": &c.Ordering.CloseHour,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if c.Database.URL == "" && c.Database.Driver == DriverPostgres {
		c.Database.URL = postgresURLFromEnv(lookup)
	}
	return nil
}

func postgresURLFromEnv(lookup func(string) (string, bool)) string {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	host := get("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := get("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		get("POSTGRES_USER"), get("POSTGRES_PASSWORD"), host, port, get("POSTGRES_DB"))
}

// StoreTimeout returns Database.Timeout as a duration. Call Validate first.
func (c *Config) StoreTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Database.Timeout)
	return d
}

// Location loads Ordering.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ordering.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ordering.timezone %q: %w", c.Ordering.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("invalid database.driver: %q", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required (or POSTGRES_HOST for postgres)"))
	}
	if d, err := time.ParseDuration(c.Database.Timeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("invalid database.timeout: %q", c.Database.Timeout))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Ordering.OpenHour < 0 || c.Ordering.CloseHour > 24 || c.Ordering.OpenHour >= c.Ordering.CloseHour {
		errs = append(errs, fmt.Errorf("invalid ordering hours: open=%d close=%d", c.Ordering.OpenHour, c.Ordering.CloseHour))
	}
	for name, spec := range map[string]string{
		"ordering.announce_schedule": c.Ordering.AnnounceSchedule,
		"ordering.close_schedule":    c.Ordering.CloseSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, spec, err))
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("invalid log.format: %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
