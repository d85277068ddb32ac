package folio

import "time"

// BlogCollection is the collection holding blog posts.
const BlogCollection = "blog"

// Entry is one content file as exposed by a ContentStore.
type Entry struct {
	ID         string
	Collection string
	Data       EntryData
	Body       string // raw Markdown/MDX without front matter
	SourcePath string // file the entry was loaded from, empty for indexed entries
}

// EntryData is the validated front matter of an entry.
type EntryData struct {
	Title       string
	Description string
	PubDate     time.Time
	UpdatedDate time.Time // zero when never updated
	HeroImage   string    // opaque reference, empty means no image
	Tags        []string
	Draft       bool
}

// DisplayRow is the rendering-ready projection of an Entry in a listing.
type DisplayRow struct {
	ID            string
	LinkHref      string
	Title         string
	FormattedDate string
	ImageRef      string
	PubDate       time.Time
}

// HasImage reports whether the row carries a hero image.
func (r DisplayRow) HasImage() bool {
	return r.ImageRef != ""
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, absolute
}
