// Package folio is a blog engine for Markdown/MDX content collections.
// Posts are files with front matter; folio orders them, renders listing and
// detail pages through user-supplied templ components, and either writes a
// static site (Builder) or serves it live with Echo (App).
package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// App serves the site over HTTP. Content files are mirrored into a SQLite
// index and read through a TTL cache; Sync refreshes both.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Index    *Index
	Cache    *EntryCache
	Site     *Site
	Registry *prometheus.Registry

	source  ContentStore
	views   ViewFuncs
	logger  *slog.Logger
	metrics *siteMetrics
	routes  []func(*App)
	once    sync.Once
	initErr error
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	o := buildOptions(opts)
	fsStore := NewFileStore(cfg.ContentDir)
	fsStore.IncludeDrafts = cfg.IncludeDrafts

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &App{
		Config:   cfg,
		Echo:     e,
		Registry: o.registry,
		source:   fsStore,
		views:    views,
		logger:   o.logger,
		metrics:  newSiteMetrics(o.registry),
		routes:   o.routes,
	}
}

// Init opens the content index, performs the first sync and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init() error {
	a.once.Do(func() {
		a.initErr = a.init()
	})
	return a.initErr
}

func (a *App) init() error {
	idx, err := NewIndex(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init index: %w", err)
	}
	a.Index = idx
	a.Cache = NewEntryCache(idx, a.Config.CacheTTL)

	assets := NewAssetPipeline(a.Config, a.assetsRoot())
	a.Site = newSite(a.Config, a.Cache, a.views, assets, a.metrics)

	if err := a.Sync(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.routes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server. It blocks until the
// server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.logger.Info("serving", "addr", a.Config.Addr, "base", a.Config.BasePath)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Sync reloads the blog collection from the content directory into the
// index and drops cached entries and processed images. A failed load keeps
// the previous snapshot.
func (a *App) Sync() error {
	entries, err := a.source.Entries(BlogCollection)
	if err != nil {
		a.metrics.indexSyncs.WithLabelValues("error").Inc()
		return fmt.Errorf("folio: load content: %w", err)
	}
	if err := a.Index.Sync(BlogCollection, entries); err != nil {
		a.metrics.indexSyncs.WithLabelValues("error").Inc()
		return fmt.Errorf("folio: sync index: %w", err)
	}
	a.Cache.Invalidate()
	a.Site.Assets.Reset()
	a.metrics.indexSyncs.WithLabelValues("ok").Inc()
	a.logger.Info("content synced", "collection", BlogCollection, "entries", len(entries))
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

// assetsRoot is where serve mode writes processed images, next to the index.
func (a *App) assetsRoot() string {
	return filepath.Join(filepath.Dir(a.Config.DatabasePath), "site")
}
