package views

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

func testViews() *Views {
	v := New(folio.SiteConfig{
		Name:        "Field Notes",
		URL:         "https://example.com",
		BasePath:    "/notes/",
		Description: "Short essays",
	})
	v.now = func() time.Time { return time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC) }
	return v
}

func renderString(t *testing.T, cmp templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cmp.Render(context.Background(), &buf))
	return buf.String()
}

func item(id, title, img string, pub time.Time) folio.ListingItem {
	return folio.ListingItem{
		DisplayRow: folio.DisplayRow{
			ID:            id,
			LinkHref:      folio.PostHref("/notes/", id),
			Title:         title,
			FormattedDate: folio.FormatDate(pub),
			ImageRef:      img,
			PubDate:       pub,
		},
		ImageURL: img,
	}
}

func TestHome(t *testing.T) {
	pub := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	out := renderString(t, testViews().Home([]folio.ListingItem{
		item("with-image", "With <Image>", "/notes/_assets/x.jpg", pub),
		item("plain", "Plain", "", pub.AddDate(0, 0, -1)),
	}))

	assert.Contains(t, out, "<title>Field Notes</title>")
	assert.Contains(t, out, `<a href="/notes/blog/with-image/">`)
	assert.Contains(t, out, `<img width="720" height="360" src="/notes/_assets/x.jpg" alt="" />`)
	assert.Contains(t, out, "With &lt;Image&gt;")
	assert.Contains(t, out, `<time datetime="2025-06-13">Jun 13, 2025</time>`)
	assert.Contains(t, out, `<link rel="stylesheet" href="/notes/global.css" />`)
	assert.Contains(t, out, `href="/notes/" class="active">Home</a>`)
	assert.Contains(t, out, "&copy; 2025 Field Notes.")
	assert.Equal(t, 1, strings.Count(out, "<img "), "only rows with an image get an <img>")
}

func TestHomeWithoutPosts(t *testing.T) {
	out := renderString(t, testViews().Home(nil))
	assert.NotContains(t, out, "Latest posts")
}

func TestBlogIndexEmpty(t *testing.T) {
	out := renderString(t, testViews().BlogIndex(nil))
	assert.Contains(t, out, "No posts yet.")
	assert.Contains(t, out, "<title>Blog | Field Notes</title>")
	assert.Contains(t, out, `href="/notes/blog/" class="active">Blog</a>`)
}

func TestPost(t *testing.T) {
	e := folio.Entry{
		ID: "hello",
		Data: folio.EntryData{
			Title:       "Hello",
			PubDate:     time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
			UpdatedDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		Body: "Some **bold** words about things.",
	}
	var related []folio.DisplayRow
	for _, id := range []string{"a", "b", "c", "d"} {
		related = append(related, folio.DisplayRow{ID: id, LinkHref: folio.PostHref("/notes/", id), Title: strings.ToUpper(id)})
	}

	out := renderString(t, testViews().Post(folio.PostView{
		Entry:       e,
		Date:        "Jun 13, 2025",
		UpdatedDate: "Jul 1, 2025",
		ImageURL:    "/notes/_assets/hello-hero.jpg",
		Body:        markdown.Markdown(e.Body),
		Related:     related,
	}))

	assert.Contains(t, out, "<title>Hello | Field Notes</title>")
	assert.Contains(t, out, `<meta name="description" content="Some bold words about things." />`)
	assert.Contains(t, out, `<meta property="og:image" content="https://example.com/notes/_assets/hello-hero.jpg" />`)
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/notes/blog/hello/" />`)
	assert.Contains(t, out, "<p>Some <strong>bold</strong> words about things.</p>")
	assert.Contains(t, out, "Last updated on Jul 1, 2025")
	assert.Contains(t, out, `<p class="tags">Tagged go, web &amp; stuff</p>`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `<a href="/notes/blog/c/">C</a>`)
	assert.NotContains(t, out, `<a href="/notes/blog/d/">D</a>`)
}

func TestPostWithoutUpdate(t *testing.T) {
	out := renderString(t, testViews().Post(folio.PostView{
		Entry: folio.Entry{ID: "x", Data: folio.EntryData{Title: "X", Description: "Given"}},
		Date:  "Jan 1, 2025",
	}))
	assert.NotContains(t, out, "Last updated on")
	assert.NotContains(t, out, "hero-image")
	assert.NotContains(t, out, `class="tags"`)
	assert.Contains(t, out, `content="Given"`)
}

func TestErrorPages(t *testing.T) {
	v := testViews()
	assert.Contains(t, renderString(t, v.NotFound()), "Page not found")
	assert.Contains(t, renderString(t, v.ServerError()), "Something went wrong")
}

func TestHref(t *testing.T) {
	assert.Equal(t, "/", Href("", ""))
	assert.Equal(t, "/rss.xml", Href("/", "rss.xml"))
	assert.Equal(t, "/notes/blog/", Href("/notes", "/blog/"))
}

func TestAbsURL(t *testing.T) {
	assert.Equal(t, "", AbsURL("https://example.com", ""))
	assert.Equal(t, "https://cdn.example.com/a.jpg", AbsURL("https://example.com", "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "//cdn.example.com/a.jpg", AbsURL("https://example.com", "//cdn.example.com/a.jpg"))
	assert.Equal(t, "https://example.com/img/a.jpg", AbsURL("https://example.com", "/img/a.jpg"))
}

func TestFuncs(t *testing.T) {
	f := testViews().Funcs()
	assert.NotNil(t, f.Home)
	assert.NotNil(t, f.BlogIndex)
	assert.NotNil(t, f.Post)
	assert.NotNil(t, f.NotFound)
	assert.NotNil(t, f.ServerError)
}

func TestNewWithLayoutsOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layout"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not_found.html"),
		[]byte(`{{define "content"}}<main>Lost at {{href "blog/"}}</main>{{end}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout", "footer.html"),
		[]byte(`{{define "footer"}}<footer>custom footer</footer>{{end}}`), 0o644))

	v, err := NewWithLayouts(folio.SiteConfig{Name: "Field Notes", BasePath: "/notes/"}, dir)
	require.NoError(t, err)

	out := renderString(t, v.NotFound())
	assert.Contains(t, out, "<main>Lost at /notes/blog/</main>")
	assert.Contains(t, out, "<footer>custom footer</footer>")
	assert.NotContains(t, out, "Page not found")
	// untouched templates keep the defaults
	assert.Contains(t, out, "<title>Not found | Field Notes</title>")
	assert.Contains(t, renderString(t, v.ServerError()), "Something went wrong")
}

func TestNewWithLayoutsMissingDir(t *testing.T) {
	v, err := NewWithLayouts(folio.SiteConfig{Name: "Field Notes"}, filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Contains(t, renderString(t, v.NotFound()), "Page not found")

	v, err = NewWithLayouts(folio.SiteConfig{}, "")
	require.NoError(t, err)
	assert.NotNil(t, v.Funcs().Home)
}

func TestNewWithLayoutsBrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.html"), []byte(`{{define "content"}}{{.Nope`), 0o644))

	_, err := NewWithLayouts(folio.SiteConfig{}, dir)
	assert.Error(t, err)
}
