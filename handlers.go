package folio

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

func (a *App) setupRoutes() {
	e := a.Echo
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Registry,
	}))

	g := e.Group(strings.TrimSuffix(a.Config.BasePath, "/"))
	g.GET("/", a.handleHome)
	g.GET("/blog/", a.handleBlogIndex)
	g.GET("/blog/*", a.handlePost)
	g.GET("/rss.xml", a.handleFeed)
	g.GET("/sitemap.xml", a.handleSitemap)
	g.GET("/"+stylesheetName, a.handleStylesheet)
	g.Static("/"+assetsDir, a.Site.Assets.Dir())
	g.Static("/", a.Config.PublicDir)
}

func (a *App) handleHome(c echo.Context) error {
	entries, err := a.Site.Entries()
	if err != nil {
		return err
	}
	cmp, err := a.Site.HomePage(entries)
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handleBlogIndex(c echo.Context) error {
	entries, err := a.Site.Entries()
	if err != nil {
		return err
	}
	cmp, err := a.Site.BlogIndexPage(entries)
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handlePost(c echo.Context) error {
	id := strings.Trim(c.Param("*"), "/")
	entry, err := a.Cache.Entry(BlogCollection, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Site.Views.NotFound())
		}
		return err
	}
	entries, err := a.Site.Entries()
	if err != nil {
		return err
	}
	cmp, err := a.Site.PostPage(entry, entries)
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handleFeed(c echo.Context) error {
	entries, err := a.Site.Entries()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteRSS(c.Response(), a.Config, entries)
}

func (a *App) handleSitemap(c echo.Context) error {
	entries, err := a.Site.Entries()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config, entries)
}

// handleStylesheet serves the public dir's global.css, falling back to the
// embedded default.
func (a *App) handleStylesheet(c echo.Context) error {
	own := filepath.Join(a.Config.PublicDir, stylesheetName)
	if _, err := os.Stat(own); err == nil {
		return c.File(own)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/" + stylesheetName)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Site.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, a.Site.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
