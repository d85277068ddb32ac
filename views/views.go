// Package views holds the default page templates. Pages share the head,
// header and footer layouts under templates/layout and are exposed to folio
// as templ components.
package views

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

//go:embed templates
var templateFS embed.FS

// pageData is what every page template receives.
type pageData struct {
	Site   folio.SiteConfig
	Meta   folio.PageMeta
	Nav    string
	JSONLD template.JS
	Year   int

	Items   []folio.ListingItem
	Post    *folio.PostView
	Body    template.HTML
	Related []folio.DisplayRow
}

// Views renders folio pages with the embedded templates.
type Views struct {
	cfg   folio.SiteConfig
	pages map[string]*template.Template
	now   func() time.Time
}

var (
	layoutFiles = []string{"layout/base.html", "layout/head.html", "layout/header.html", "layout/footer.html"}
	pageNames   = []string{"home", "blog_index", "post", "not_found", "server_error"}
)

// New parses the embedded templates for cfg. It panics on a broken
// template, which can only happen when the embedded files are edited.
func New(cfg folio.SiteConfig) *Views {
	v, err := parse(cfg, defaultTemplates())
	if err != nil {
		panic(err)
	}
	return v
}

// NewWithLayouts is like New but reads templates from dir first. A file such
// as dir/post.html or dir/layout/head.html replaces the embedded template
// with the same path, and anything missing falls back to the default. An
// empty or missing dir yields the defaults.
func NewWithLayouts(cfg folio.SiteConfig, dir string) (*Views, error) {
	if dir == "" {
		return parse(cfg, defaultTemplates())
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return parse(cfg, defaultTemplates())
	} else if err != nil {
		return nil, err
	}
	v, err := parse(cfg, overlayFS{top: os.DirFS(dir), base: defaultTemplates()})
	if err != nil {
		return nil, fmt.Errorf("layouts %s: %w", dir, err)
	}
	return v, nil
}

func defaultTemplates() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

func parse(cfg folio.SiteConfig, fsys fs.FS) (*Views, error) {
	base, err := template.New("").Funcs(template.FuncMap{
		"href":     func(p string) string { return Href(cfg.BasePath, p) },
		"isoDate":  folio.ISODate,
		"joinTags": folio.JoinTags,
	}).ParseFS(fsys, layoutFiles...)
	if err != nil {
		return nil, err
	}

	v := &Views{cfg: cfg, pages: make(map[string]*template.Template), now: time.Now}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if v.pages[name], err = t.ParseFS(fsys, name+".html"); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// overlayFS opens files from top and falls back to base.
type overlayFS struct {
	top, base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.base.Open(name)
	}
	return f, err
}

// Funcs returns the views as folio.ViewFuncs.
func (v *Views) Funcs() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:        v.Home,
		BlogIndex:   v.BlogIndex,
		Post:        v.Post,
		NotFound:    v.NotFound,
		ServerError: v.ServerError,
	}
}

// Home renders the landing page with the latest posts.
func (v *Views) Home(items []folio.ListingItem) templ.Component {
	return v.page("home", pageData{
		Meta:   v.siteMeta(v.cfg.Name, v.cfg.SiteURL()),
		Nav:    "home",
		JSONLD: template.JS(folio.WebsiteJsonLD(v.cfg)),
		Items:  items,
	})
}

// BlogIndex renders the full post listing.
func (v *Views) BlogIndex(items []folio.ListingItem) templ.Component {
	return v.page("blog_index", pageData{
		Meta:   v.siteMeta("Blog | "+v.cfg.Name, folio.BuildURL(v.cfg.URL, v.cfg.BasePath, "blog")),
		Nav:    "blog",
		JSONLD: template.JS(folio.WebsiteJsonLD(v.cfg)),
		Items:  items,
	})
}

// Post renders a single post. The body component is rendered first so the
// page template receives finished HTML.
func (v *Views) Post(post folio.PostView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if post.Body != nil {
			if err := post.Body.Render(ctx, &body); err != nil {
				return err
			}
		}
		related := post.Related
		if len(related) > maxRelated {
			related = related[:maxRelated]
		}
		return v.execute(w, "post", pageData{
			Meta:    PostMeta(v.cfg, post),
			Nav:     "blog",
			JSONLD:  template.JS(folio.BlogPostingJsonLD(post.Entry, v.cfg)),
			Post:    &post,
			Body:    template.HTML(body.String()),
			Related: related,
		})
	})
}

// NotFound renders the 404 page.
func (v *Views) NotFound() templ.Component {
	return v.page("not_found", pageData{
		Meta:   v.siteMeta("Not found | "+v.cfg.Name, v.cfg.SiteURL()),
		JSONLD: template.JS(folio.WebsiteJsonLD(v.cfg)),
	})
}

// ServerError renders the 500 page.
func (v *Views) ServerError() templ.Component {
	return v.page("server_error", pageData{
		Meta:   v.siteMeta("Error | "+v.cfg.Name, v.cfg.SiteURL()),
		JSONLD: template.JS(folio.WebsiteJsonLD(v.cfg)),
	})
}

func (v *Views) page(name string, data pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.execute(w, name, data)
	})
}

func (v *Views) execute(w io.Writer, name string, data pageData) error {
	data.Site = v.cfg
	data.Year = v.now().Year()
	return v.pages[name].ExecuteTemplate(w, "base", data)
}

func (v *Views) siteMeta(title, url string) folio.PageMeta {
	return folio.PageMeta{
		Title:       title,
		Description: v.cfg.Description,
		URL:         url,
		OGType:      "website",
	}
}

// Href resolves a site-relative path against the base path.
func Href(basePath, p string) string {
	return folio.NormalizeBasePath(basePath) + strings.TrimPrefix(p, "/")
}
