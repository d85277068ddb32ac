package folio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Builder renders the whole site to static files.
type Builder struct {
	Config   SiteConfig
	Site     *Site
	Registry *prometheus.Registry

	logger  *slog.Logger
	metrics *siteMetrics
}

// BuildReport summarises a finished build.
type BuildReport struct {
	Entries  int
	Pages    int
	Duration time.Duration
}

// NewBuilder creates a Builder writing to cfg.OutputDir.
func NewBuilder(cfg SiteConfig, store ContentStore, views ViewFuncs, opts ...Option) *Builder {
	cfg.setDefaults()
	o := buildOptions(opts)
	m := newSiteMetrics(o.registry)
	assets := NewAssetPipeline(cfg, cfg.OutputDir)
	return &Builder{
		Config:   cfg,
		Site:     newSite(cfg, store, views, assets, m),
		Registry: o.registry,
		logger:   o.logger,
		metrics:  m,
	}
}

// Build loads the blog collection and writes every page, the feed and the
// sitemap. The first error aborts the build.
func (b *Builder) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	out := b.Config.OutputDir

	entries, err := b.Site.Entries()
	if err != nil {
		return BuildReport{}, fmt.Errorf("folio: load content: %w", err)
	}
	b.logger.Info("content loaded", "collection", BlogCollection, "entries", len(entries))

	if err := b.prepareOutput(); err != nil {
		return BuildReport{}, err
	}

	var pages atomic.Int64
	page := func(rel string, render func() error) error {
		if err := render(); err != nil {
			return fmt.Errorf("folio: render %s: %w", rel, err)
		}
		pages.Add(1)
		b.logger.Debug("page written", "path", rel)
		return nil
	}

	home, err := b.Site.HomePage(entries)
	if err != nil {
		return BuildReport{}, err
	}
	if err := page("index.html", func() error {
		return RenderFile(ctx, filepath.Join(out, "index.html"), home)
	}); err != nil {
		return BuildReport{}, err
	}

	listing, err := b.Site.BlogIndexPage(entries)
	if err != nil {
		return BuildReport{}, err
	}
	if err := page("blog/index.html", func() error {
		return RenderFile(ctx, filepath.Join(out, "blog", "index.html"), listing)
	}); err != nil {
		return BuildReport{}, err
	}

	if err := page("404.html", func() error {
		return RenderFile(ctx, filepath.Join(out, "404.html"), b.Site.Views.NotFound())
	}); err != nil {
		return BuildReport{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cmp, err := b.Site.PostPage(e, entries)
			if err != nil {
				return err
			}
			rel := filepath.Join("blog", filepath.FromSlash(e.ID), "index.html")
			return page(rel, func() error {
				return RenderFile(gctx, filepath.Join(out, rel), cmp)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return BuildReport{}, err
	}

	if err := writeFile(filepath.Join(out, "rss.xml"), func(w *bufio.Writer) error {
		return WriteRSS(w, b.Config, entries)
	}); err != nil {
		return BuildReport{}, fmt.Errorf("folio: write rss: %w", err)
	}
	if err := writeFile(filepath.Join(out, "sitemap.xml"), func(w *bufio.Writer) error {
		return WriteSitemap(w, b.Config, entries)
	}); err != nil {
		return BuildReport{}, fmt.Errorf("folio: write sitemap: %w", err)
	}

	report := BuildReport{Entries: len(entries), Pages: int(pages.Load()), Duration: time.Since(start)}
	b.metrics.buildDuration.Observe(report.Duration.Seconds())
	b.logger.Info("build finished", "out", out, "pages", report.Pages, "duration", report.Duration)
	return report, nil
}

// prepareOutput empties the output directory, copies the public dir and
// adds the default stylesheet when the public dir does not provide one.
func (b *Builder) prepareOutput() error {
	out := b.Config.OutputDir
	absOut, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	for _, dir := range []string{".", b.Config.ContentDir, b.Config.PublicDir} {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if containsPath(absOut, abs) {
			return fmt.Errorf("folio: refusing to clean output dir %q: it contains %q", out, dir)
		}
	}
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("folio: clean output dir: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("folio: create output dir: %w", err)
	}

	if _, err := os.Stat(b.Config.PublicDir); err == nil {
		if err := copyDirContents(b.Config.PublicDir, out); err != nil {
			return fmt.Errorf("folio: copy public dir: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	} else {
		b.logger.Debug("public dir missing, skipping copy", "dir", b.Config.PublicDir)
	}

	css := filepath.Join(out, stylesheetName)
	if _, err := os.Stat(css); errors.Is(err, fs.ErrNotExist) {
		data, err := fs.ReadFile(EmbeddedAssets, "embedded/"+stylesheetName)
		if err != nil {
			return err
		}
		if err := os.WriteFile(css, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// containsPath reports whether dir is parent or a directory below it.
func containsPath(parent, dir string) bool {
	rel, err := filepath.Rel(parent, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// copyDirContents copies the tree under src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
