package folio

import (
	"encoding/xml"
	"io"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap covering the home page, the blog listing
// and every entry. lastmod is the updated date when set.
func WriteSitemap(w io.Writer, cfg SiteConfig, entries []Entry) error {
	urls := []sitemapURL{
		{Loc: cfg.SiteURL()},
		{Loc: BuildURL(cfg.URL, cfg.BasePath, "blog")},
	}
	for _, e := range SortEntries(entries) {
		mod := e.Data.PubDate
		if !e.Data.UpdatedDate.IsZero() {
			mod = e.Data.UpdatedDate
		}
		urls = append(urls, sitemapURL{
			Loc:     cfg.PostURL(e.ID),
			LastMod: ISODate(mod),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
