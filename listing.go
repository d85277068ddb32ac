package folio

import (
	"slices"
	"strings"
	"time"
)

// DateFormatter turns a publish timestamp into display text.
type DateFormatter func(time.Time) string

// ListingOptions configures RenderListing.
type ListingOptions struct {
	BasePath   string        // URL prefix the site is served under, default "/"
	FormatDate DateFormatter // default FormatDate
}

// RenderListing orders entries newest first and projects each into a
// DisplayRow. Entries with the same publish instant are ordered by ID.
// The input slice is not modified.
func RenderListing(entries []Entry, opts ListingOptions) []DisplayRow {
	format := opts.FormatDate
	if format == nil {
		format = FormatDate
	}
	sorted := SortEntries(entries)
	rows := make([]DisplayRow, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, DisplayRow{
			ID:            e.ID,
			LinkHref:      PostHref(opts.BasePath, e.ID),
			Title:         e.Data.Title,
			FormattedDate: format(e.Data.PubDate),
			ImageRef:      e.Data.HeroImage,
			PubDate:       e.Data.PubDate,
		})
	}
	return rows
}

// SortEntries returns a copy of entries sorted by publish date descending,
// then by ID ascending.
func SortEntries(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, compareEntries)
	return sorted
}

func compareEntries(a, b Entry) int {
	if c := b.Data.PubDate.Compare(a.Data.PubDate); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// PostHref builds the link to a post: base path, "blog/", the id and a
// trailing slash. PostHref("/", "my-post") is "/blog/my-post/".
func PostHref(basePath, id string) string {
	return NormalizeBasePath(basePath) + "blog/" + id + "/"
}

// NormalizeBasePath returns basePath with exactly one leading and one
// trailing slash. An empty base path is "/".
func NormalizeBasePath(basePath string) string {
	p := strings.Trim(strings.TrimSpace(basePath), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
