// Package config provides YAML configuration parsing for the horus
// binary.
//
// This package enables running horus as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK
// approach.
//
// Example configuration:
//
//	host: localhost
//	port: 8080
//	read_timeout: 5s
//
//	routes:
//	  - path: /
//	    body: "hello"
//	  - path: /index
//	    body: "index fallback"
//	    file: ./public/index.html
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultHost            = "localhost"
	defaultPort            = 80
	defaultReadTimeout     = 5 * time.Second
	defaultMaxRequestBytes = 20 * 1024
)

// Config is the root configuration structure for horus.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Host is the bind host. Defaults to "localhost".
	Host string `yaml:"host"`

	// Port is the listen port. Defaults to 80, which requires
	// elevated privileges on most systems.
	Port int `yaml:"port"`

	// ServerName is the value of the identifying server header.
	// Defaults to "Horus" when empty.
	ServerName string `yaml:"server_name"`

	// ReadTimeout bounds how long the server waits for a request's
	// header block. Accepts duration strings like "5s", "500ms".
	// Defaults to 5s.
	ReadTimeout Duration `yaml:"read_timeout"`

	// MaxRequestBytes caps the buffered request size. Defaults to
	// 20 KiB.
	MaxRequestBytes int `yaml:"max_request_bytes"`

	// Routes defines the served routes.
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig defines a single route.
type RouteConfig struct {
	// Path is the request target, matched by exact equality.
	// Must begin with "/".
	Path string `yaml:"path"`

	// Body is the inline response body served by the route's handler.
	Body string `yaml:"body"`

	// File is an optional on-disk file. If it exists at request time
	// its bytes are served instead of Body.
	// Supports environment variable substitution: ${VAR} or
	// ${VAR:-default}.
	File string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in file paths are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in route file paths. Defaults are
// applied for Host (localhost), Port (80), ReadTimeout (5s) and
// MaxRequestBytes (20 KiB).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = Duration(defaultReadTimeout)
	}
	if cfg.MaxRequestBytes == 0 {
		cfg.MaxRequestBytes = defaultMaxRequestBytes
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the
// config.
func (c *Config) expandAndValidate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}
	if c.ReadTimeout.Duration() < 0 {
		return fmt.Errorf("read_timeout cannot be negative, got %s", c.ReadTimeout.Duration())
	}
	if c.MaxRequestBytes < 0 {
		return fmt.Errorf("max_request_bytes cannot be negative, got %d", c.MaxRequestBytes)
	}

	if len(c.Routes) == 0 {
		return errors.New("at least one route must be defined")
	}

	seen := make(map[string]struct{}, len(c.Routes))
	for i := range c.Routes {
		rc := &c.Routes[i]

		if rc.Path == "" {
			return fmt.Errorf("routes[%d]: path is required", i)
		}
		if !strings.HasPrefix(rc.Path, "/") {
			return fmt.Errorf("routes[%d] (%s): path must begin with /", i, rc.Path)
		}
		if _, exists := seen[rc.Path]; exists {
			return fmt.Errorf("routes[%d]: duplicate path %q", i, rc.Path)
		}
		seen[rc.Path] = struct{}{}

		if rc.Body == "" && rc.File == "" {
			return fmt.Errorf("routes[%d] (%s): body or file is required", i, rc.Path)
		}

		if rc.File != "" {
			expanded, err := expandEnvVars(rc.File)
			if err != nil {
				return fmt.Errorf("routes[%d] (%s): file: %w", i, rc.Path, err)
			}
			rc.File = expanded
		}
	}

	return nil
}
