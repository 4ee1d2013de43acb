// Package config loads server configuration from defaults, an optional
// YAML file, environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/praveen44/portfolio/internal/imagefallback"
	"github.com/praveen44/portfolio/internal/scroll"
	"github.com/praveen44/portfolio/internal/view"
)

// ConfigFileName is looked up in the working directory when no file is given.
const ConfigFileName = "portfolio.yaml"

// EnvPrefix namespaces environment overrides: PORTFOLIO_SERVER_PORT -> server.port.
const EnvPrefix = "PORTFOLIO_"

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Content  ContentConfig  `koanf:"content"`
	Assets   AssetsConfig   `koanf:"assets"`
	Images   ImagesConfig   `koanf:"images"`
	Header   HeaderConfig   `koanf:"header"`
	Tracking TrackingConfig `koanf:"tracking"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Log      LogConfig      `koanf:"log"`
	UI       UIConfig       `koanf:"ui"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Mode          string `koanf:"mode"`
	SessionSecret string `koanf:"session_secret"`

	// TrustForwardedProto honours X-Forwarded-Proto when deciding whether
	// cookies are marked Secure. Enable only behind a TLS-terminating proxy.
	TrustForwardedProto bool `koanf:"trust_forwarded_proto"`
}

type ContentConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

type AssetsConfig struct {
	ImagesDir string `koanf:"images_dir"`
	StaticDir string `koanf:"static_dir"`
}

type ImagesConfig struct {
	Fallback string `koanf:"fallback"`
}

type HeaderConfig struct {
	Threshold float64 `koanf:"threshold"`
}

type TrackingConfig struct {
	DB   string `koanf:"db"`
	Salt string `koanf:"salt"`
}

// SMTPConfig configures the contact form mailer.
type SMTPConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

// Enabled reports whether credentials are present.
func (c SMTPConfig) Enabled() bool {
	return c.User != "" && c.Pass != ""
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type UIConfig struct {
	DatastarSrc string `koanf:"datastar_src"`
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                  8080,
		"server.mode":                  "release",
		"server.trust_forwarded_proto": false,
		"content.watch":                false,
		"assets.images_dir":            "./images",
		"assets.static_dir":            "./static",
		"images.fallback":              imagefallback.DefaultFallback,
		"header.threshold":             float64(scroll.DefaultThreshold),
		"smtp.host":                    "smtp.gmail.com",
		"smtp.port":                    "587",
		"log.level":                    "info",
		"log.format":                   "text",
		"ui.datastar_src":              view.DefaultDatastarSrc,
	}
}

// legacyEnv maps the bare variables older deployments set.
var legacyEnv = map[string]string{
	"PORT":      "server.port",
	"GIN_MODE":  "server.mode",
	"SMTP_HOST": "smtp.host",
	"SMTP_PORT": "smtp.port",
	"SMTP_USER": "smtp.user",
	"SMTP_PASS": "smtp.pass",
	"TO_EMAIL":  "smtp.to",
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"port":        "server.port",
	"mode":        "server.mode",
	"content":     "content.path",
	"watch":       "content.watch",
	"images-dir":  "assets.images_dir",
	"static-dir":  "assets.static_dir",
	"tracking-db": "tracking.db",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// Load builds the configuration. Later sources win: defaults, config file,
// legacy environment, PORTFOLIO_ environment, explicitly set flags.
// cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			cfgFile = ConfigFileName
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(filepath.Clean(cfgFile)), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	legacy := make(map[string]any)
	for name, key := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			legacy[key] = v
		}
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// PORTFOLIO_SERVER_SESSION_SECRET -> server.session_secret
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test: %q", c.Server.Mode)
	}
	if c.Header.Threshold < 0 {
		return fmt.Errorf("header.threshold must not be negative: %v", c.Header.Threshold)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json: %q", c.Log.Format)
	}
	return nil
}
