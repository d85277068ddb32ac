package folio

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() SiteConfig {
	cfg := SiteConfig{
		Name:        "Test Blog",
		URL:         "https://example.com",
		BasePath:    "/docs",
		Description: "Notes",
		Author:      "Ada",
	}
	cfg.setDefaults()
	return cfg
}

func TestWriteRSS(t *testing.T) {
	entries := []Entry{
		entry("old", "Old", "2024-01-01", ""),
		entry("new", "New & Shiny", "2025-06-13", ""),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, testConfig(), entries))

	var feed rssXML
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &feed))
	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Test Blog", feed.Channel.Title)
	assert.Equal(t, "https://example.com/docs/", feed.Channel.Link)
	require.Len(t, feed.Channel.Items, 2)
	assert.Equal(t, "New & Shiny", feed.Channel.Items[0].Title)
	assert.Equal(t, "https://example.com/docs/blog/new/", feed.Channel.Items[0].Link)
	assert.Equal(t, "Fri, 13 Jun 2025 00:00:00 +0000", feed.Channel.Items[0].PubDate)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))
}

func TestWriteSitemap(t *testing.T) {
	updated := entry("updated", "U", "2024-01-01", "")
	updated.Data.UpdatedDate = day("2024-05-01")
	entries := []Entry{entry("plain", "P", "2025-06-13", ""), updated}

	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, testConfig(), entries))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &set))
	require.Len(t, set.URLs, 4)
	assert.Equal(t, "https://example.com/docs/", set.URLs[0].Loc)
	assert.Equal(t, "https://example.com/docs/blog/", set.URLs[1].Loc)
	assert.Equal(t, sitemapURL{Loc: "https://example.com/docs/blog/plain/", LastMod: "2025-06-13"}, set.URLs[2])
	assert.Equal(t, sitemapURL{Loc: "https://example.com/docs/blog/updated/", LastMod: "2024-05-01"}, set.URLs[3])
}

func TestBlogPostingJsonLD(t *testing.T) {
	e := entry("post", "Post", "2025-06-13", "")
	e.Data.Tags = []string{"go", "web"}

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(BlogPostingJsonLD(e, testConfig())), &data))
	assert.Equal(t, "BlogPosting", data["@type"])
	assert.Equal(t, "2025-06-13", data["datePublished"])
	assert.Equal(t, "https://example.com/docs/blog/post/", data["url"])
	assert.Equal(t, "go, web", data["keywords"])
	assert.NotContains(t, data, "dateModified")
}

func TestWebsiteJsonLD(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebsiteJsonLD(testConfig())), &data))
	assert.Equal(t, "WebSite", data["@type"])
	assert.Equal(t, "https://example.com/docs/", data["url"])
	assert.Equal(t, map[string]any{"@type": "Person", "name": "Ada"}, data["author"])
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":      "hello-world",
		"  Go 1.24 rocks ": "go-1-24-rocks",
		"--already--":      "already",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.com/", BuildURL("https://example.com", "/"))
	assert.Equal(t, "https://example.com/blog/x/", BuildURL("https://example.com", "/", "blog", "x"))
	assert.Equal(t, "https://example.com/a.png", FileURL("https://example.com", "/a.png"))
}

func TestRelatedEntries(t *testing.T) {
	cur := entry("cur", "C", "2025-01-01", "")
	cur.Data.Tags = []string{" Go "}
	a := entry("a", "A", "2025-01-01", "")
	a.Data.Tags = []string{"go"}
	b := entry("b", "B", "2025-01-01", "")
	b.Data.Tags = []string{"rust"}

	related := RelatedEntries(cur, []Entry{cur, a, b})
	require.Len(t, related, 1)
	assert.Equal(t, "a", related[0].ID)
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "", JoinTags(nil))
	assert.Equal(t, "go", JoinTags([]string{"go"}))
	assert.Equal(t, "go, web", JoinTags([]string{"go", "web"}))
}
