// Package config loads the todo server configuration.
//
// Values are resolved in this order, later sources winning: built-in
// defaults, the config file, TODO_* environment variables, then command line
// flags. The config file format follows its extension: .ini, .toml, or
// .json/.jsonc (JSON with comments and trailing commas).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/inovacc/todo/internal/application"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
	"gopkg.in/ini.v1"
)

const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 3000
	DefaultDriver    = "sqlite"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTimezone  = "Local"
)

var (
	errUnsupportedFormat = errors.New("unsupported config file format")

	drivers    = []string{"sqlite", "bolt"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json", "pretty"}
)

// Config is the resolved application configuration.
type Config struct {
	Server ServerConfig `ini:"server" toml:"server" json:"server"`
	Store  StoreConfig  `ini:"store" toml:"store" json:"store"`
	Log    LogConfig    `ini:"log" toml:"log" json:"log"`
	Export ExportConfig `ini:"export" toml:"export" json:"export"`

	// File is the config file that was read, empty when none was found
	File string `ini:"-" toml:"-" json:"-"`
}

type ServerConfig struct {
	Host string `ini:"host" toml:"host" json:"host"`
	Port int    `ini:"port" toml:"port" json:"port"`
}

type StoreConfig struct {
	Driver string `ini:"driver" toml:"driver" json:"driver"`
	Path   string `ini:"path" toml:"path" json:"path"`
}

type LogConfig struct {
	Level  string `ini:"level" toml:"level" json:"level"`
	Format string `ini:"format" toml:"format" json:"format"`
}

type ExportConfig struct {
	Timezone string `ini:"timezone" toml:"timezone" json:"timezone"`
}

// Default returns the built-in configuration. Store.Path is left empty and
// resolved against the application directory by Finalize.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort},
		Store:  StoreConfig{Driver: DefaultDriver},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Export: ExportConfig{Timezone: DefaultTimezone},
	}
}

// DefaultFile returns the config file looked up when none is given.
func DefaultFile() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, application.ConfigFile), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path means the default file, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if def, err := DefaultFile(); err == nil {
			path = def
		}
	}

	if path != "" {
		fileCfg, err := readFile(path)

		switch {
		case err == nil:
			cfg = merge(cfg, fileCfg)
			cfg.File = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readFile(path string) (Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf", "":
		f, err := ini.Load(path)
		if err != nil {
			return cfg, err
		}

		sections := map[string]any{
			"server": &cfg.Server,
			"store":  &cfg.Store,
			"log":    &cfg.Log,
			"export": &cfg.Export,
		}

		for name, dst := range sections {
			if !f.HasSection(name) {
				continue
			}

			if err := f.Section(name).MapTo(dst); err != nil {
				return cfg, fmt.Errorf("section [%s]: %w", name, err)
			}
		}

		return cfg, nil
	case ".toml":
		_, err := toml.DecodeFile(path, &cfg)
		return cfg, err
	case ".json", ".jsonc":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}

		standardized, err := hujson.Standardize(data)
		if err != nil {
			return cfg, fmt.Errorf("invalid JSONC: %w", err)
		}

		if err := json.Unmarshal(standardized, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid JSON: %w", err)
		}

		return cfg, nil
	default:
		return cfg, fmt.Errorf("%w: %s", errUnsupportedFormat, filepath.Ext(path))
	}
}

func merge(base, overlay Config) Config {
	if overlay.Server.Host != "" {
		base.Server.Host = overlay.Server.Host
	}

	if overlay.Server.Port != 0 {
		base.Server.Port = overlay.Server.Port
	}

	if overlay.Store.Driver != "" {
		base.Store.Driver = overlay.Store.Driver
	}

	if overlay.Store.Path != "" {
		base.Store.Path = overlay.Store.Path
	}

	if overlay.Log.Level != "" {
		base.Log.Level = overlay.Log.Level
	}

	if overlay.Log.Format != "" {
		base.Log.Format = overlay.Log.Format
	}

	if overlay.Export.Timezone != "" {
		base.Export.Timezone = overlay.Export.Timezone
	}

	return base
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"TODO_HOST", &cfg.Server.Host},
		{"TODO_STORE_DRIVER", &cfg.Store.Driver},
		{"TODO_STORE_PATH", &cfg.Store.Path},
		{"TODO_LOG_LEVEL", &cfg.Log.Level},
		{"TODO_LOG_FORMAT", &cfg.Log.Format},
		{"TODO_EXPORT_TIMEZONE", &cfg.Export.Timezone},
	}

	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	// TODO_PORT wins over the conventional PORT
	for _, key := range []string{"PORT", "TODO_PORT"} {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}

		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}

		cfg.Server.Port = port
	}

	return nil
}

// RegisterFlags adds the flags that can override configuration values.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", DefaultHost, "address to listen on")
	fs.Int("port", DefaultPort, "port to listen on")
	fs.String("driver", DefaultDriver, "store driver (sqlite|bolt)")
	fs.String("db", "", "database file path")
	fs.String("log-level", DefaultLogLevel, "log level (debug|info|warn|error)")
	fs.String("log-format", DefaultLogFormat, "log format (text|json|pretty)")
	fs.String("timezone", DefaultTimezone, "time zone used for export timestamps")
}

// ApplyFlags copies every flag the user set explicitly into the config.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"host", &c.Server.Host},
		{"driver", &c.Store.Driver},
		{"db", &c.Store.Path},
		{"log-level", &c.Log.Level},
		{"log-format", &c.Log.Format},
		{"timezone", &c.Export.Timezone},
	}

	for _, s := range strs {
		if fs.Lookup(s.name) == nil || !fs.Changed(s.name) {
			continue
		}

		v, err := fs.GetString(s.name)
		if err != nil {
			return err
		}

		*s.dst = v
	}

	if fs.Lookup("port") != nil && fs.Changed("port") {
		port, err := fs.GetInt("port")
		if err != nil {
			return err
		}

		c.Server.Port = port
	}

	return nil
}

// Finalize fills the store path from the application directory when unset.
func (c *Config) Finalize() error {
	if c.Store.Path != "" {
		return nil
	}

	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return err
	}

	name := application.DatabaseFile
	if c.Store.Driver == "bolt" {
		name = application.BoltFile
	}

	c.Store.Path = filepath.Join(dir, name)

	return nil
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	if !slices.Contains(drivers, c.Store.Driver) {
		return fmt.Errorf("invalid store driver %q (want one of %s)", c.Store.Driver, strings.Join(drivers, ", "))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Location returns the export time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Export.Timezone == "" || c.Export.Timezone == DefaultTimezone {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid export timezone %q: %w", c.Export.Timezone, err)
	}

	return loc, nil
}
