// Package config loads service settings from defaults, config.yaml, a .env
// file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "CATALOG_"
	defaultEnvFile = ".env"
	configFile     = "config.yaml"
)

type Config struct {
	Server struct {
		Port              int           `koanf:"port" validate:"min=1,max=65535"`
		ReadHeaderTimeout time.Duration `koanf:"readHeaderTimeout" validate:"gt=0"`
		ShutdownTimeout   time.Duration `koanf:"shutdownTimeout" validate:"gt=0"`
	} `koanf:"server"`

	Log struct {
		Level string `koanf:"level" validate:"oneof=debug info warn error"`
	} `koanf:"log"`

	CORS struct {
		AllowedOrigins string `koanf:"allowedOrigins"`
	} `koanf:"cors"`

	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Token   string `koanf:"token" validate:"required_if=Enabled true"`
	} `koanf:"metrics"`

	RateLimit struct {
		Writes         int           `koanf:"writes" validate:"gte=0"`
		Window         time.Duration `koanf:"window" validate:"required_with=Writes"`
		TrustForwarded bool          `koanf:"trustForwarded"`
	} `koanf:"ratelimit"`

	Placeholder struct {
		BaseURL string `koanf:"baseURL" validate:"required,url"`
		Max     int    `koanf:"max" validate:"gt=0"`
	} `koanf:"placeholder"`
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Origins splits cors.allowedOrigins on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) String() string {
	token := "<not configured>"
	if c.Metrics.Token != "" {
		token = "****"
	}
	return fmt.Sprintf("server.port=%d, server.readHeaderTimeout=%v, server.shutdownTimeout=%v, log.level=%s, cors.allowedOrigins=%q, metrics.enabled=%t, metrics.token=%s, ratelimit.writes=%d, ratelimit.window=%v, ratelimit.trustForwarded=%t, placeholder.baseURL=%s, placeholder.max=%d",
		c.Server.Port,
		c.Server.ReadHeaderTimeout,
		c.Server.ShutdownTimeout,
		c.Log.Level,
		c.CORS.AllowedOrigins,
		c.Metrics.Enabled,
		token,
		c.RateLimit.Writes,
		c.RateLimit.Window,
		c.RateLimit.TrustForwarded,
		c.Placeholder.BaseURL,
		c.Placeholder.Max,
	)
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":              3000,
		"server.readHeaderTimeout": "5s",
		"server.shutdownTimeout":   "10s",
		"log.level":                "info",
		"cors.allowedOrigins":      "*",
		"metrics.enabled":          false,
		"metrics.token":            "",
		"ratelimit.writes":         0,
		"ratelimit.window":         "1m",
		"ratelimit.trustForwarded": false,
		"placeholder.baseURL":      "https://picsum.photos/200/200",
		"placeholder.max":          1000,
	}
}

// Load reads the configuration from a file and environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 2. Optional yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: error loading YAML config: %v", err)
		}
	}

	// 3. Optional .env file
	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if path := keyTransformer(key); path != "" {
				envMap[path] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Process environment, the highest priority
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return keyTransformer(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// keyTransformer maps CATALOG_SERVER_PORT to server.port. Plain PORT is
// honoured as server.port; every other variable is dropped.
func keyTransformer(key string) string {
	if key == "PORT" {
		return "server.port"
	}
	rest, ok := strings.CutPrefix(key, envPrefix)
	if !ok {
		return ""
	}
	section, field, ok := strings.Cut(strings.ToLower(rest), "_")
	if !ok {
		return ""
	}
	return knownKeys[section+"."+strings.ReplaceAll(field, "_", "")]
}

// knownKeys restores the camelCase of a lowercased key path. Env names are
// upper case, so CATALOG_SERVER_READHEADERTIMEOUT has to find
// server.readHeaderTimeout here.
var knownKeys = func() map[string]string {
	m := make(map[string]string)
	for key := range defaults() {
		m[strings.ToLower(key)] = key
	}
	return m
}()
