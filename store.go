package folio

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Index mirrors content collections into SQLite so serve mode reads from a
// single consistent snapshot while files are being edited.
type Index struct {
	db *sql.DB
}

// NewIndex opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewIndex(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the watcher resync while handlers read; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	idx := &Index{db: db}
	if err := idx.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close closes the underlying database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

func (x *Index) ensureSchema() error {
	_, err := x.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    updated_date TEXT NOT NULL DEFAULT '',
    hero_image TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    source_path TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    synced_at TEXT NOT NULL
);
`)
	return err
}

// Sync replaces the stored contents of collection with entries in a single
// transaction. Readers see either the old or the new snapshot.
func (x *Index) Sync(collection string, entries []Entry) (err error) {
	tx, err := x.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM entries WHERE collection = ?`, collection); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO entries (collection, id, title, description, pub_date, updated_date, hero_image, tags, draft, body, source_path) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		draft := 0
		if e.Data.Draft {
			draft = 1
		}
		if _, err = stmt.Exec(collection, e.ID, e.Data.Title, e.Data.Description,
			formatStoredTime(e.Data.PubDate), formatStoredTime(e.Data.UpdatedDate),
			e.Data.HeroImage, joinStoredTags(e.Data.Tags), draft, e.Body, e.SourcePath); err != nil {
			return fmt.Errorf("index %s/%s: %w", collection, e.ID, err)
		}
	}
	if _, err = tx.Exec(`INSERT OR REPLACE INTO collections (name, synced_at) VALUES (?, ?)`,
		collection, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Entries returns every indexed entry of collection.
func (x *Index) Entries(collection string) ([]Entry, error) {
	if err := x.checkCollection(collection); err != nil {
		return nil, err
	}

	rows, err := x.db.Query(`SELECT id, title, description, pub_date, updated_date, hero_image, tags, draft, body, source_path FROM entries WHERE collection = ?`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		e.Collection = collection
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Entry returns a single indexed entry.
func (x *Index) Entry(collection, id string) (Entry, error) {
	if err := x.checkCollection(collection); err != nil {
		return Entry{}, err
	}
	row := x.db.QueryRow(`SELECT id, title, description, pub_date, updated_date, hero_image, tags, draft, body, source_path FROM entries WHERE collection = ? AND id = ?`, collection, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	e.Collection = collection
	return e, nil
}

// checkCollection fails with ErrCollectionNotFound until collection has
// been synced at least once.
func (x *Index) checkCollection(collection string) error {
	var n int
	if err := x.db.QueryRow(`SELECT COUNT(*) FROM collections WHERE name = ?`, collection).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return nil
}

// Collections returns the names of every synced collection.
func (x *Index) Collections() ([]string, error) {
	rows, err := x.db.Query(`SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var id, title, description, pubDate, updatedDate, heroImage, tags, body, source string
	var draft int
	if err := r.Scan(&id, &title, &description, &pubDate, &updatedDate, &heroImage, &tags, &draft, &body, &source); err != nil {
		return Entry{}, err
	}
	pub, err := parseStoredTime(pubDate)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: pub_date: %w", id, err)
	}
	updated, err := parseStoredTime(updatedDate)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: updated_date: %w", id, err)
	}
	return Entry{
		ID: id,
		Data: EntryData{
			Title:       title,
			Description: description,
			PubDate:     pub,
			UpdatedDate: updated,
			HeroImage:   heroImage,
			Tags:        ParseTags(tags),
			Draft:       draft == 1,
		},
		Body:       body,
		SourcePath: source,
	}, nil
}

func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseStoredTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func joinStoredTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
