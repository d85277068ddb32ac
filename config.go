package folio

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical origin (default "http://localhost:3000")
	BasePath    string // URL prefix the site is served under (default "/")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	ContentDir string // Collections root (default "content")
	PublicDir  string // Files copied verbatim into the site (default "public")
	OutputDir  string // Static build target (default "dist")

	Addr         string // Listen address for serve mode (default ":3000")
	DatabasePath string // SQLite content index (default "data/content.db")
	CacheTTL     time.Duration

	HomeLimit     int  // Posts shown on the home page (default 5, negative hides the list)
	HeroWidth     int  // Max width of processed hero images (default 1020)
	Sanitize      bool // Run rendered post HTML through bluemonday
	IncludeDrafts bool
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.BasePath = NormalizeBasePath(c.BasePath)
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.HomeLimit == 0 {
		c.HomeLimit = 5
	}
	if c.HeroWidth == 0 {
		c.HeroWidth = 1020
	}
}

// SiteURL returns the absolute URL of the site root including the base path.
func (c SiteConfig) SiteURL() string {
	return BuildURL(c.URL, c.BasePath)
}

// PostURL returns the absolute URL of a post.
func (c SiteConfig) PostURL(id string) string {
	return BuildURL(c.URL, c.BasePath, "blog", id)
}

// ListingOptions returns the listing options for this site.
func (c SiteConfig) ListingOptions() ListingOptions {
	return ListingOptions{BasePath: c.BasePath, FormatDate: FormatDate}
}

// options shared by App and Builder.
type options struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	routes   []func(*App)
}

// Option configures additional App or Builder behavior.
type Option func(*options)

// WithLogger sets the structured logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegistry sets the prometheus registry metrics are registered on.
// Each App or Builder gets its own registry by default.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(o *options) {
		o.routes = append(o.routes, fn)
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	return o
}
