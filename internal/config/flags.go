package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Flags holds the command line options shared by every binary.
type Flags struct {
	fs *pflag.FlagSet

	configPath string
	envFile    string
	httpAddr   string
	driver     string
	url        string
	logLevel   string
}

func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.StringVar(&f.httpAddr, "http-addr", "", "HTTP listen address")
	fs.StringVar(&f.driver, "db-driver", "", "database driver (postgres or sqlite)")
	fs.StringVar(&f.url, "db-url", "", "database connection string")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return f
}

// Load builds and validates the configuration. The flag set must have
// been parsed.
func (f *Flags) Load() (*Config, error) {
	cfg := Default()

	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (f *Flags) apply(cfg *Config) {
	set := func(name, value string, dst *string) {
		if f.fs.Changed(name) {
			*dst = value
		}
	}
	set("http-addr", f.httpAddr, &cfg.HTTP.Addr)
	set("db-driver", f.driver, &cfg.Database.Driver)
	set("db-url", f.url, &cfg.Database.URL)
	set("log-level", f.logLevel, &cfg.Log.Level)
}
