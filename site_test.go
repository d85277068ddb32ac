package folio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textViews renders pages as plain text lines, which keeps assertions
// independent of any HTML template.
func textViews() ViewFuncs {
	list := func(kind string) func([]ListingItem) templ.Component {
		return func(items []ListingItem) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				fmt.Fprintln(w, kind)
				for _, it := range items {
					fmt.Fprintf(w, "%s|%s|%s|%s\n", it.LinkHref, it.Title, it.FormattedDate, it.ImageURL)
				}
				return nil
			})
		}
	}
	return ViewFuncs{
		Home:      list("home"),
		BlogIndex: list("blog"),
		Post: func(p PostView) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, "post %s|%s|%s|%s\n", p.Entry.ID, p.Date, p.UpdatedDate, p.ImageURL)
				for _, r := range p.Related {
					fmt.Fprintf(w, "related %s\n", r.ID)
				}
				return p.Body.Render(ctx, w)
			})
		},
		NotFound: func() templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "not found")
				return err
			})
		},
		ServerError: func() templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "server error")
				return err
			})
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func render(t *testing.T, cmp templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cmp.Render(context.Background(), &buf))
	return buf.String()
}

func newTestSite(t *testing.T, cfg SiteConfig, store ContentStore) *Site {
	t.Helper()
	cfg.setDefaults()
	reg := prometheus.NewRegistry()
	assets := NewAssetPipeline(cfg, t.TempDir())
	return newSite(cfg, store, textViews(), assets, newSiteMetrics(reg))
}

func TestSiteHomePageLimit(t *testing.T) {
	var entries []Entry
	for i := 1; i <= 7; i++ {
		entries = append(entries, entry(fmt.Sprintf("p%d", i), fmt.Sprintf("P%d", i), fmt.Sprintf("2025-01-0%d", i), ""))
	}
	site := newTestSite(t, SiteConfig{HomeLimit: 3}, newCountingStore())

	cmp, err := site.HomePage(entries)
	require.NoError(t, err)
	out := render(t, cmp)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "/blog/p7/|P7|Jan 7, 2025|", lines[1])
	assert.Equal(t, 1.0, testutil.ToFloat64(site.metrics.pagesRendered.WithLabelValues("home")))
}

func TestSiteHomePageHidden(t *testing.T) {
	site := newTestSite(t, SiteConfig{HomeLimit: -1}, newCountingStore())
	cmp, err := site.HomePage([]Entry{entry("a", "A", "2025-01-01", "")})
	require.NoError(t, err)
	assert.Equal(t, "home\n", render(t, cmp))
}

func TestSiteBlogIndexResolvesImages(t *testing.T) {
	site := newTestSite(t, SiteConfig{BasePath: "/docs"}, newCountingStore())

	entries := []Entry{
		entry("remote", "Remote", "2025-01-02", "https://cdn.example.com/r.jpg"),
		entry("rooted", "Rooted", "2025-01-01", "/img/r.png"),
		entry("plain", "Plain", "2024-12-31", ""),
	}
	cmp, err := site.BlogIndexPage(entries)
	require.NoError(t, err)

	assert.Equal(t, "blog\n"+
		"/docs/blog/remote/|Remote|Jan 2, 2025|https://cdn.example.com/r.jpg\n"+
		"/docs/blog/rooted/|Rooted|Jan 1, 2025|/docs/img/r.png\n"+
		"/docs/blog/plain/|Plain|Dec 31, 2024|\n", render(t, cmp))
}

func TestSitePostPage(t *testing.T) {
	site := newTestSite(t, SiteConfig{}, newCountingStore())

	current := entry("current", "Current", "2025-03-01", "")
	current.Data.Tags = []string{"go"}
	current.Data.UpdatedDate = day("2025-03-05")
	current.Body = "## Section\n\nText"
	other := entry("other", "Other", "2025-02-01", "")
	other.Data.Tags = []string{"Go"}
	unrelated := entry("unrelated", "Unrelated", "2025-02-02", "")

	cmp, err := site.PostPage(current, []Entry{current, other, unrelated})
	require.NoError(t, err)
	out := render(t, cmp)

	assert.Contains(t, out, "post current|Mar 1, 2025|Mar 5, 2025|\n")
	assert.Contains(t, out, "related other\n")
	assert.NotContains(t, out, "related unrelated")
	assert.Contains(t, out, `<h2 id="section">Section</h2>`)
}

func TestSiteEntriesGauge(t *testing.T) {
	site := newTestSite(t, SiteConfig{}, newCountingStore())
	entries, err := site.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(site.metrics.entries))
}
