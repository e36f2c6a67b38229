// Package config loads checker and site settings.
//
// Precedence: defaults < YAML file < FRAME_* environment < flag overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"docsite-frame-checker/internal/robots"
)

const EnvPrefix = "FRAME"

type Config struct {
	// BaseURL is the running site the checks fetch from.
	BaseURL string `mapstructure:"base_url"`
	// SiteURL is the canonical origin hreflang alternates point at.
	SiteURL string `mapstructure:"site_url"`

	LanguagesFile string `mapstructure:"languages_file"`
	VersionsFile  string `mapstructure:"versions_file"`
	// ContentDir holds <lang>/<path>.md documents. Empty means the sample
	// content built into the binary.
	ContentDir       string `mapstructure:"content_dir"`
	ReleaseNotesPath string `mapstructure:"release_notes_path"`

	HTTP     HTTPConfig   `mapstructure:"http"`
	Run      RunConfig    `mapstructure:"run"`
	Robots   RobotsConfig `mapstructure:"robots"`
	Server   ServerConfig `mapstructure:"server"`
	LogLevel string       `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	SizeCap     int64         `mapstructure:"size_cap"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type RunConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Suites      []string      `mapstructure:"suites"`
	Langs       []string      `mapstructure:"langs"`
}

type RobotsConfig struct {
	Disallow []string `mapstructure:"disallow"`
	// Agent is the user agent robots.txt rules are evaluated for.
	Agent string `mapstructure:"agent"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func Default() Config {
	return Config{
		BaseURL:          "http://localhost:4000",
		SiteURL:          "https://docs.github.com",
		ReleaseNotesPath: "admin/release-notes.md",
		HTTP: HTTPConfig{
			Timeout:     60 * time.Second,
			DialTimeout: 5 * time.Second,
			SizeCap:     5 * 1024 * 1024,
			UserAgent:   "docsite-frame-checker/1.0",
		},
		Run: RunConfig{
			Concurrency: 10,
			Timeout:     60 * time.Second,
		},
		Robots: RobotsConfig{
			Disallow: robots.DefaultDisallow,
			Agent:    "Googlebot",
		},
		Server: ServerConfig{
			Addr:            ":4000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

type LoadOptions struct {
	// ConfigPath is an optional YAML file; a missing file is not an error
	// unless Required is set.
	ConfigPath string
	Required   bool
	// FlagOverrides are dot-notated keys set by CLI flags.
	FlagOverrides map[string]any
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, opts.ConfigPath, opts.Required); err != nil {
		return Config{}, err
	}
	for k, val := range opts.FlagOverrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("site_url", def.SiteURL)
	v.SetDefault("languages_file", def.LanguagesFile)
	v.SetDefault("versions_file", def.VersionsFile)
	v.SetDefault("content_dir", def.ContentDir)
	v.SetDefault("release_notes_path", def.ReleaseNotesPath)
	v.SetDefault("log_level", def.LogLevel)

	v.SetDefault("http.timeout", def.HTTP.Timeout)
	v.SetDefault("http.dial_timeout", def.HTTP.DialTimeout)
	v.SetDefault("http.size_cap", def.HTTP.SizeCap)
	v.SetDefault("http.user_agent", def.HTTP.UserAgent)

	v.SetDefault("run.concurrency", def.Run.Concurrency)
	v.SetDefault("run.timeout", def.Run.Timeout)
	v.SetDefault("run.suites", def.Run.Suites)
	v.SetDefault("run.langs", def.Run.Langs)

	v.SetDefault("robots.disallow", def.Robots.Disallow)
	v.SetDefault("robots.agent", def.Robots.Agent)

	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", def.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
}

func mergeConfigFile(v *viper.Viper, path string, required bool) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

func Validate(cfg Config) error {
	return validation.ValidateStruct(&cfg,
		validation.Field(&cfg.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&cfg.SiteURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&cfg.HTTP),
		validation.Field(&cfg.Run),
	)
}

func (h HTTPConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&h.SizeCap, validation.Required, validation.Min(int64(1))),
	)
}

func (r RunConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Concurrency, validation.Required, validation.Min(1)),
		validation.Field(&r.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return validation.NewError("config.absolute_url", "must be an absolute url")
	}
	return nil
}
