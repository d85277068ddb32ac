package views

import (
	"net/url"
	"strings"

	"github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

// maxRelated caps the related posts shown under an article.
const maxRelated = 3

// excerptLen is the description length used when a post has none.
const excerptLen = 160

// PostMeta builds the head metadata of a post page. A missing description
// falls back to an excerpt of the body.
func PostMeta(cfg folio.SiteConfig, post folio.PostView) folio.PageMeta {
	desc := post.Entry.Data.Description
	if desc == "" {
		desc = markdown.Excerpt(post.Entry.Body, excerptLen)
	}
	title := post.Entry.Data.Title
	if title == "" {
		title = cfg.Name
	} else {
		title += " | " + cfg.Name
	}
	return folio.PageMeta{
		Title:       title,
		Description: desc,
		URL:         cfg.PostURL(post.Entry.ID),
		OGType:      "article",
		Image:       AbsURL(cfg.URL, post.ImageURL),
	}
}

// AbsURL makes a site-rooted URL absolute against origin. Absolute and
// empty references are returned unchanged.
func AbsURL(origin, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() || strings.HasPrefix(ref, "//") {
		return ref
	}
	return folio.FileURL(origin, u.Path)
}
