package folio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// contentExts are the file extensions a FileStore loads.
var contentExts = map[string]bool{".md": true, ".mdx": true, ".markdown": true}

// frontMatter is the declared schema of an entry's front matter.
type frontMatter struct {
	Title       string   `yaml:"title" toml:"title"`
	Description string   `yaml:"description" toml:"description"`
	PubDate     any      `yaml:"pubDate" toml:"pubDate"`
	UpdatedDate any      `yaml:"updatedDate" toml:"updatedDate"`
	HeroImage   string   `yaml:"heroImage" toml:"heroImage"`
	Tags        []string `yaml:"tags" toml:"tags"`
	Draft       bool     `yaml:"draft" toml:"draft"`
}

// FileStore loads collections from Markdown/MDX files on disk. Each
// collection is a directory under Root.
type FileStore struct {
	Root          string
	IncludeDrafts bool
	fsys          fs.FS
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Root: dir, fsys: os.DirFS(dir)}
}

// files lets a FileStore built as a struct literal read from Root.
func (s *FileStore) files() fs.FS {
	if s.fsys == nil {
		return os.DirFS(s.Root)
	}
	return s.fsys
}

// Entries parses every content file in the collection. Any schema violation
// fails the whole load.
func (s *FileStore) Entries(collection string) ([]Entry, error) {
	if _, err := fs.Stat(s.files(), collection); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, err
	}

	var entries []Entry
	seen := make(map[string]string)
	err := fs.WalkDir(s.files(), collection, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != collection && strings.HasPrefix(d.Name(), "_") {
				return fs.SkipDir
			}
			return nil
		}
		if !contentExts[strings.ToLower(path.Ext(p))] || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		e, err := s.load(collection, p)
		if err != nil {
			return err
		}
		if prev, ok := seen[e.ID]; ok {
			return &EntryError{Path: e.SourcePath, Field: "id", Err: fmt.Errorf("duplicate id %q, also used by %s", e.ID, prev)}
		}
		seen[e.ID] = e.SourcePath
		if e.Data.Draft && !s.IncludeDrafts {
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Entry loads a single entry by id.
func (s *FileStore) Entry(collection, id string) (Entry, error) {
	entries, err := s.Entries(collection)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *FileStore) load(collection, p string) (Entry, error) {
	src := filepath.Join(s.Root, filepath.FromSlash(p))
	raw, err := fs.ReadFile(s.files(), p)
	if err != nil {
		return Entry{}, err
	}
	var fm frontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Entry{}, &EntryError{Path: src, Err: fmt.Errorf("front matter: %w", err)}
	}

	pub, err := ParseDate(fm.PubDate)
	if err != nil {
		return Entry{}, &EntryError{Path: src, Field: "pubDate", Err: err}
	}
	var updated time.Time
	if fm.UpdatedDate != nil {
		updated, err = ParseDate(fm.UpdatedDate)
		if err != nil {
			return Entry{}, &EntryError{Path: src, Field: "updatedDate", Err: err}
		}
	}

	rel := strings.TrimPrefix(p, collection+"/")
	return Entry{
		ID:         EntryID(rel),
		Collection: collection,
		Data: EntryData{
			Title:       fm.Title,
			Description: fm.Description,
			PubDate:     pub,
			UpdatedDate: updated,
			HeroImage:   strings.TrimSpace(fm.HeroImage),
			Tags:        FilterEmpty(fm.Tags),
			Draft:       fm.Draft,
		},
		Body:       string(body),
		SourcePath: src,
	}, nil
}

// EntryID derives an entry id from a slash-separated path relative to its
// collection: the extension is dropped, a trailing "index" segment collapses
// into its directory, and each segment is lower-cased with spaces dashed.
func EntryID(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if base := path.Base(rel); strings.EqualFold(base, "index") && rel != base {
		rel = path.Dir(rel)
	}
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	}
	return strings.Join(segs, "/")
}
