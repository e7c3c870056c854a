package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 8080
	defaultUpstreamTimeout = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultCommentRate     = 0.2
	defaultCommentBurst    = 5
)

// Config is the process configuration. Load builds it from defaults, an optional YAML
// file and the environment, in that order.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CMS     CMSConfig     `yaml:"cms"`
	Log     LogConfig     `yaml:"log"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Comment CommentConfig `yaml:"comments"`
	Tracing TracingConfig `yaml:"tracing"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CMSConfig locates the GraphQL API. Endpoint and Token may be empty; the comment
// endpoint reports that as a configuration error.
type CMSConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LedgerConfig enables the unlinked comment ledger when Path is set.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

type CommentConfig struct {
	// RateLimit is the sustained number of submissions per second accepted by the server.
	RateLimit float64 `yaml:"rateLimit"`
	Burst     int     `yaml:"burst"`
}

type TracingConfig struct {
	// Exporter is "stdout" or empty for no tracing.
	Exporter string `yaml:"exporter"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            defaultPort,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		CMS: CMSConfig{
			Timeout: defaultUpstreamTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Comment: CommentConfig{
			RateLimit: defaultCommentRate,
			Burst:     defaultCommentBurst,
		},
	}
}

// Load reads path when it is non-empty and then applies environment overrides.
// Empty environment variables are ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			if err := set(strings.TrimSpace(v)); err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			}
		}
	}

	str("GRAPHCMS_ENDPOINT", &c.CMS.Endpoint)
	str("GRAPHCMS_TOKEN", &c.CMS.Token)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LINK_LEDGER_PATH", &c.Ledger.Path)
	str("TRACE_EXPORTER", &c.Tracing.Exporter)

	parse("PORT", func(v string) (err error) {
		c.Server.Port, err = strconv.Atoi(v)
		return err
	})
	parse("UPSTREAM_TIMEOUT", func(v string) (err error) {
		c.CMS.Timeout, err = time.ParseDuration(v)
		return err
	})
	parse("COMMENT_RATE_LIMIT", func(v string) (err error) {
		c.Comment.RateLimit, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("COMMENT_RATE_BURST", func(v string) (err error) {
		c.Comment.Burst, err = strconv.Atoi(v)
		return err
	})

	return errors.Join(errs...)
}

// Validate rejects values the server cannot start with. A missing CMS endpoint or token is
// not an error here.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.CMS.Timeout < 0 {
		errs = append(errs, fmt.Errorf("upstream timeout must not be negative"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	if c.Comment.RateLimit < 0 || c.Comment.Burst < 0 {
		errs = append(errs, fmt.Errorf("comment rate limit and burst must not be negative"))
	}
	switch c.Tracing.Exporter {
	case "", "stdout":
	default:
		errs = append(errs, fmt.Errorf("unsupported trace exporter %q", c.Tracing.Exporter))
	}

	return errors.Join(errs...)
}
