package folio

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/markdown"
)

// ListingItem pairs a listing row with the public URL of its hero image.
type ListingItem struct {
	DisplayRow
	ImageURL string
}

// PostView is everything a post detail template needs.
type PostView struct {
	Entry       Entry
	Date        string // formatted publish date
	UpdatedDate string // formatted update date, empty when never updated
	ImageURL    string
	Body        templ.Component
	Related     []DisplayRow
}

// ViewFuncs holds the templ components the site renders pages with. This
// is the inversion-of-control mechanism that lets users own all templates.
type ViewFuncs struct {
	Home        func(items []ListingItem) templ.Component
	BlogIndex   func(items []ListingItem) templ.Component
	Post        func(post PostView) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// Site assembles pages from a content store. It is shared by the static
// Builder and the live App; every call works on a fresh load of the store.
type Site struct {
	Config SiteConfig
	Store  ContentStore
	Views  ViewFuncs
	Assets *AssetPipeline

	md      *markdown.Renderer
	metrics *siteMetrics
}

func newSite(cfg SiteConfig, store ContentStore, views ViewFuncs, assets *AssetPipeline, m *siteMetrics) *Site {
	var mdOpts []markdown.Option
	if cfg.Sanitize {
		mdOpts = append(mdOpts, markdown.WithSanitize())
	}
	return &Site{
		Config:  cfg,
		Store:   store,
		Views:   views,
		Assets:  assets,
		md:      markdown.New(mdOpts...),
		metrics: m,
	}
}

// Entries loads the blog collection.
func (s *Site) Entries() ([]Entry, error) {
	entries, err := s.Store.Entries(BlogCollection)
	if err != nil {
		return nil, err
	}
	s.metrics.entries.Set(float64(len(entries)))
	return entries, nil
}

// Listing renders entries into listing items with resolved image URLs.
func (s *Site) Listing(entries []Entry) ([]ListingItem, error) {
	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	rows := RenderListing(entries, s.Config.ListingOptions())
	items := make([]ListingItem, len(rows))
	for i, row := range rows {
		items[i].DisplayRow = row
		if !row.HasImage() {
			continue
		}
		u, err := s.Assets.Resolve(byID[row.ID])
		if err != nil {
			return nil, err
		}
		items[i].ImageURL = u
	}
	return items, nil
}

// HomePage renders the home page with the latest HomeLimit posts.
func (s *Site) HomePage(entries []Entry) (templ.Component, error) {
	items, err := s.Listing(entries)
	if err != nil {
		return nil, err
	}
	switch limit := s.Config.HomeLimit; {
	case limit < 0:
		items = nil
	case limit < len(items):
		items = items[:limit]
	}
	s.metrics.pagesRendered.WithLabelValues("home").Inc()
	return s.Views.Home(items), nil
}

// BlogIndexPage renders the full post listing.
func (s *Site) BlogIndexPage(entries []Entry) (templ.Component, error) {
	items, err := s.Listing(entries)
	if err != nil {
		return nil, err
	}
	s.metrics.pagesRendered.WithLabelValues("listing").Inc()
	return s.Views.BlogIndex(items), nil
}

// PostPage renders the detail page of e. entries supplies related posts.
func (s *Site) PostPage(e Entry, entries []Entry) (templ.Component, error) {
	img, err := s.Assets.Resolve(e)
	if err != nil {
		return nil, err
	}
	view := PostView{
		Entry:    e,
		Date:     FormatDate(e.Data.PubDate),
		ImageURL: img,
		Body:     s.md.Component(e.Body),
		Related:  RenderListing(RelatedEntries(e, entries), s.Config.ListingOptions()),
	}
	if !e.Data.UpdatedDate.IsZero() {
		view.UpdatedDate = FormatDate(e.Data.UpdatedDate)
	}
	s.metrics.pagesRendered.WithLabelValues("post").Inc()
	return s.Views.Post(view), nil
}
