package folio

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(id, title, pub, hero string) Entry {
	return Entry{
		ID:         id,
		Collection: BlogCollection,
		Data: EntryData{
			Title:     title,
			PubDate:   day(pub),
			HeroImage: hero,
		},
	}
}

func TestRenderListingScenarioOrder(t *testing.T) {
	entries := []Entry{
		entry("a", "A", "2025-06-13", ""),
		entry("b", "B", "2024-01-01", ""),
		entry("c", "C", "2025-06-14", ""),
	}

	rows := RenderListing(entries, ListingOptions{BasePath: "/"})

	var got []string
	for _, r := range rows {
		got = append(got, ISODate(r.PubDate))
	}
	assert.Equal(t, []string{"2025-06-14", "2025-06-13", "2024-01-01"}, got)
}

func TestRenderListingEmpty(t *testing.T) {
	rows := RenderListing(nil, ListingOptions{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRenderListingRow(t *testing.T) {
	entries := []Entry{entry("my-post", "My Post", "2025-06-13", "./hero.png")}

	rows := RenderListing(entries, ListingOptions{BasePath: "/"})

	want := []DisplayRow{{
		ID:            "my-post",
		LinkHref:      "/blog/my-post/",
		Title:         "My Post",
		FormattedDate: "Jun 13, 2025",
		ImageRef:      "./hero.png",
		PubDate:       day("2025-06-13"),
	}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("RenderListing mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderListingImageGating(t *testing.T) {
	entries := []Entry{
		entry("with", "With", "2025-01-02", "https://cdn.example.com/x.jpg"),
		entry("without", "Without", "2025-01-01", ""),
	}

	rows := RenderListing(entries, ListingOptions{})

	require.Len(t, rows, 2)
	assert.True(t, rows[0].HasImage())
	assert.Equal(t, "https://cdn.example.com/x.jpg", rows[0].ImageRef)
	assert.False(t, rows[1].HasImage())
	assert.Empty(t, rows[1].ImageRef)
}

func TestRenderListingMissingTitleKeepsRow(t *testing.T) {
	rows := RenderListing([]Entry{entry("untitled", "", "2025-01-01", "")}, ListingOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Title)
	assert.Equal(t, "/blog/untitled/", rows[0].LinkHref)
}

func TestRenderListingCustomFormatter(t *testing.T) {
	rows := RenderListing([]Entry{entry("x", "X", "2025-06-13", "")}, ListingOptions{
		FormatDate: func(t time.Time) string { return t.Format("02/01/2006") },
	})
	assert.Equal(t, "13/06/2025", rows[0].FormattedDate)
}

func TestRenderListingTieBreakByID(t *testing.T) {
	entries := []Entry{
		entry("zeta", "Z", "2025-01-01", ""),
		entry("alpha", "A", "2025-01-01", ""),
		entry("mid", "M", "2025-01-01", ""),
	}
	rows := RenderListing(entries, ListingOptions{})
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestRenderListingComparesInstants(t *testing.T) {
	// 23:00 in UTC-5 is later than 02:00 UTC the next day
	est := time.FixedZone("EST", -5*3600)
	a := Entry{ID: "a", Data: EntryData{PubDate: time.Date(2025, 1, 1, 23, 0, 0, 0, est)}}
	b := Entry{ID: "b", Data: EntryData{PubDate: time.Date(2025, 1, 2, 2, 0, 0, 0, time.UTC)}}

	rows := RenderListing([]Entry{b, a}, ListingOptions{})
	assert.Equal(t, "a", rows[0].ID)
}

func TestRenderListingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 50; n++ {
		entries := make([]Entry, rng.Intn(30))
		for i := range entries {
			entries[i] = Entry{
				ID: fmt.Sprintf("post-%d", i),
				Data: EntryData{
					Title:   fmt.Sprintf("Post %d", i),
					PubDate: day("2020-01-01").AddDate(0, 0, rng.Intn(40)),
				},
			}
		}
		snapshot := slices.Clone(entries)

		rows := RenderListing(entries, ListingOptions{BasePath: "/"})

		require.Len(t, rows, len(entries), "length preserved")
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i-1].PubDate.Before(rows[i].PubDate), "descending at %d", i)
		}
		seen := make(map[string]bool)
		for _, r := range rows {
			assert.False(t, seen[r.ID], "duplicate %s", r.ID)
			seen[r.ID] = true
		}
		assert.Equal(t, snapshot, entries, "input not mutated")
		assert.Equal(t, rows, RenderListing(entries, ListingOptions{BasePath: "/"}), "idempotent")
	}
}

func TestPostHref(t *testing.T) {
	tests := []struct {
		base, id, want string
	}{
		{"/", "my-post", "/blog/my-post/"},
		{"", "my-post", "/blog/my-post/"},
		{"/docs", "my-post", "/docs/blog/my-post/"},
		{"/docs/", "my-post", "/docs/blog/my-post/"},
		{"docs", "nested/post", "/docs/blog/nested/post/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PostHref(tt.base, tt.id), "PostHref(%q, %q)", tt.base, tt.id)
	}
}
