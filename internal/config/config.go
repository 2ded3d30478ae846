// Package config loads gamelistd settings from a YAML file, .env, the
// environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nainya/gamelist/pkg/emulator"
	"github.com/nainya/gamelist/pkg/field"
)

// DefaultFile is read when no config path is given and it exists
const DefaultFile = "gamelistd.yaml"

// Config holds gamelistd settings
type Config struct {
	RomsRoot    string                `yaml:"roms_root"`
	Port        int                   `yaml:"port"`
	MetricsPort int                   `yaml:"metrics_port"`
	Log         LogConfig             `yaml:"log"`
	Cache       CacheConfig           `yaml:"cache"`
	Fields      map[string]field.Rule `yaml:"fields"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CacheConfig sizes in-memory caches
type CacheConfig struct {
	Extensions int `yaml:"extensions"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		RomsRoot:    "roms",
		Port:        50051,
		MetricsPort: 9090,
		Log:         LogConfig{Level: "info"},
		Cache:       CacheConfig{Extensions: emulator.DefaultCacheSize},
	}
}

// Load builds the configuration for args (without the program name)
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("gamelistd", flag.ContinueOnError)
	path := flags.String("config", "", "Path to the YAML config file")
	roms := flags.String("roms", "", "Directory holding one sub-directory per emulator")
	port := flags.Int("port", 0, "The gRPC server port")
	metricsPort := flags.Int("metrics-port", 0, "Port for /metrics, /health and pprof")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	file := firstNonEmpty(*path, os.Getenv("GAMELIST_CONFIG"))
	if err := cfg.readFile(file); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "roms":
			cfg.RomsRoot = *roms
		case "port":
			cfg.Port = *port
		case "metrics-port":
			cfg.MetricsPort = *metricsPort
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile merges the YAML file at path. An empty path falls back to
// DefaultFile, which may be absent.
func (c *Config) readFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("GAMELIST_ROMS_ROOT")); v != "" {
		c.RomsRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("GAMELIST_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	for name, dst := range map[string]*int{
		"GAMELIST_PORT":         &c.Port,
		"GAMELIST_METRICS_PORT": &c.MetricsPort,
	} {
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RomsRoot) == "" {
		return errors.New("roms root is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port %d", c.MetricsPort)
	}
	if c.MetricsPort != 0 && c.MetricsPort == c.Port {
		return fmt.Errorf("metrics port %d collides with the gRPC port", c.MetricsPort)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Cache.Extensions < 0 {
		return fmt.Errorf("invalid extension cache size %d", c.Cache.Extensions)
	}
	return nil
}

// Policy returns the default field policy with the configured overrides
func (c *Config) Policy() *field.Policy {
	return field.DefaultPolicy().With(c.Fields)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
