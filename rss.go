package folio

import (
	"encoding/xml"
	"io"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// WriteRSS writes an RSS 2.0 feed of entries, newest first.
func WriteRSS(w io.Writer, cfg SiteConfig, entries []Entry) error {
	sorted := SortEntries(entries)
	items := make([]rssItem, 0, len(sorted))
	for _, e := range sorted {
		postURL := cfg.PostURL(e.ID)
		items = append(items, rssItem{
			Title:       e.Data.Title,
			Link:        postURL,
			Description: e.Data.Description,
			PubDate:     e.Data.PubDate.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.SiteURL(),
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}
