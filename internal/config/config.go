// Package config loads the console configuration from yaml with
// environment overrides.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Assistant AssistantConfig `yaml:"assistant"`
	Log       LogConfig       `yaml:"log"`
	Seed      bool            `yaml:"seed"`
}

// ServerConfig holds the listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr renders the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Duration wraps time.Duration so yaml values like "30s" parse. Bare
// integers are taken as nanoseconds for compatibility with dumped configs.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// APIConfig holds HTTP surface settings.
type APIConfig struct {
	CORS           CORSConfig `yaml:"cors"`
	RequestTimeout Duration   `yaml:"request_timeout"`
}

// CORSConfig mirrors the middleware's knobs.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// AssistantConfig controls the canned-response responder.
type AssistantConfig struct {
	ReplyDelay Duration `yaml:"reply_delay"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 5000},
		API: APIConfig{
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
			},
			RequestTimeout: Duration(30 * time.Second),
		},
		Assistant: AssistantConfig{ReplyDelay: Duration(time.Second)},
		Log:       LogConfig{Level: "info"},
		Seed:      true,
	}
}

// Load reads a yaml config file over the defaults, then applies environment
// overrides. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// SplitAddr parses a host:port listen address.
func SplitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in listen address %q: %w", addr, err)
	}
	return host, port, nil
}

// applyEnv lets deployment environments override the file without editing
// it, the same knobs the container images use.
func (c *Config) applyEnv() {
	if host := os.Getenv("CHITTYINSIGHT_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("CHITTYINSIGHT_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			c.Server.Port = n
		}
	}
	if level := os.Getenv("CHITTYINSIGHT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if seed := os.Getenv("CHITTYINSIGHT_SEED"); seed != "" {
		if b, err := strconv.ParseBool(seed); err == nil {
			c.Seed = b
		}
	}
}
