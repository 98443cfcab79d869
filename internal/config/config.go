// Package config loads gridboard settings from TOML and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDBOARD_"

// Config is the full application configuration.
type Config struct {
	Grid    Grid           `toml:"grid"`
	Store   store.Config   `toml:"store"`
	Server  Server         `toml:"server"`
	Log     Log            `toml:"log"`
	Widgets []WidgetConfig `toml:"widgets"`
}

// Grid holds the dimensions of newly created boards.
type Grid struct {
	Rows         int `toml:"rows"`
	Columns      int `toml:"columns"`
	Gutter       int `toml:"gutter"`
	HistoryDepth int `toml:"history_depth"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// WidgetConfig declares a widget type. State is the default widget state as
// a JSON string.
type WidgetConfig struct {
	Type        string `toml:"type"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	State       string `toml:"state"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Grid: Grid{
			Rows:         board.DefaultRows,
			Columns:      board.DefaultColumns,
			Gutter:       8,
			HistoryDepth: board.DefaultHistoryDepth,
		},
		Store: store.Config{
			Backend: store.BackendFile,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gridboard", "config.toml")
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path uses [DefaultPath] if that file exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults without consulting the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.BoardConfig("").Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grid")
	}
	if c.Grid.HistoryDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.history_depth must be >= 0, got %d", c.Grid.HistoryDepth)
	}
	switch c.Store.Backend {
	case "", store.BackendFile, store.BackendMemory, store.BackendRedis,
		store.BackendMongo, store.BackendSQLite, store.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.ttl must be >= 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	for i, w := range c.Widgets {
		if err := errors.ValidateTypeID(w.Type); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "widgets[%d]", i)
		}
	}
	return nil
}

// BoardConfig returns the board configuration for a new dashboard.
func (c Config) BoardConfig(dashboardID string) board.Config {
	return board.Config{
		DashboardID: dashboardID,
		Rows:        c.Grid.Rows,
		Columns:     c.Grid.Columns,
		Gutter:      c.Grid.Gutter,
	}
}

// applyEnv overrides fields from GRIDBOARD_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
		}
		*dst = d
		return nil
	}

	for key, dst := range map[string]*int{
		"ROWS":          &c.Grid.Rows,
		"COLUMNS":       &c.Grid.Columns,
		"GUTTER":        &c.Grid.Gutter,
		"HISTORY_DEPTH": &c.Grid.HistoryDepth,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	var backend string
	str("STORE", &backend)
	if backend != "" {
		c.Store.Backend = store.Backend(backend)
	}
	str("STORE_DIR", &c.Store.Dir)
	str("REDIS_URL", &c.Store.RedisURL)
	str("REDIS_PREFIX", &c.Store.RedisPrefix)
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.MongoDatabase)
	str("MONGO_COLLECTION", &c.Store.MongoCollection)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)

	for key, dst := range map[string]*time.Duration{
		"STORE_TTL":     &c.Store.TTL,
		"READ_TIMEOUT":  &c.Server.ReadTimeout,
		"WRITE_TIMEOUT": &c.Server.WriteTimeout,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}
