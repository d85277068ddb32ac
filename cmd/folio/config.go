package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
)

// fileConfig mirrors config.yaml.
type fileConfig struct {
	Site struct {
		Name        string `mapstructure:"name"`
		URL         string `mapstructure:"url"`
		BasePath    string `mapstructure:"base_path"`
		Description string `mapstructure:"description"`
		Author      string `mapstructure:"author"`
	} `mapstructure:"site"`
	Paths struct {
		Content  string `mapstructure:"content"`
		Public   string `mapstructure:"public"`
		Output   string `mapstructure:"output"`
		Database string `mapstructure:"database"`
		Layouts  string `mapstructure:"layouts"`
	} `mapstructure:"paths"`
	Server struct {
		Addr     string        `mapstructure:"addr"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
		Watch    bool          `mapstructure:"watch"`
	} `mapstructure:"server"`
	Render struct {
		HomeLimit     int  `mapstructure:"home_limit"`
		HeroWidth     int  `mapstructure:"hero_width"`
		Sanitize      bool `mapstructure:"sanitize"`
		IncludeDrafts bool `mapstructure:"include_drafts"`
	} `mapstructure:"render"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// loadConfig reads .env, then config.yaml (or cfgFile), then FOLIO_*
// environment overrides such as FOLIO_SITE_URL.
func loadConfig(cfgFile string) (*fileConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.name", "Blog")
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.base_path", "/")
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")

	v.SetDefault("paths.content", "content")
	v.SetDefault("paths.public", "public")
	v.SetDefault("paths.output", "dist")
	v.SetDefault("paths.database", "data/content.db")
	v.SetDefault("paths.layouts", "layouts")

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.cache_ttl", 5*time.Minute)
	v.SetDefault("server.watch", true)

	v.SetDefault("render.home_limit", 5)
	v.SetDefault("render.hero_width", 1020)
	v.SetDefault("render.sanitize", false)
	v.SetDefault("render.include_drafts", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func validate(cfg *fileConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}
	if cfg.Render.HeroWidth < 0 {
		return fmt.Errorf("invalid hero width: %d", cfg.Render.HeroWidth)
	}
	return nil
}

// siteConfig converts the file configuration into folio's SiteConfig.
func (c *fileConfig) siteConfig() folio.SiteConfig {
	return folio.SiteConfig{
		Name:          c.Site.Name,
		URL:           c.Site.URL,
		BasePath:      c.Site.BasePath,
		Description:   c.Site.Description,
		Author:        c.Site.Author,
		ContentDir:    c.Paths.Content,
		PublicDir:     c.Paths.Public,
		OutputDir:     c.Paths.Output,
		Addr:          c.Server.Addr,
		DatabasePath:  c.Paths.Database,
		CacheTTL:      c.Server.CacheTTL,
		HomeLimit:     c.Render.HomeLimit,
		HeroWidth:     c.Render.HeroWidth,
		Sanitize:      c.Render.Sanitize,
		IncludeDrafts: c.Render.IncludeDrafts,
	}
}
