// Package sqlite provides the SQLite-backed stand-in for the external
// product document store, plus the analytics event log.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/snapshop/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// fetchTimeout bounds the full-catalog read. The catalog is fetched
// all-or-nothing; a slow store surfaces as ErrStoreUnavailable.
const fetchTimeout = 30 * time.Second

// Store is a unified SQLite-based storage that provides access to the
// catalog and event log interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.snapshop/data/snapshop.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".snapshop", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapshop.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogStore returns a CatalogStore interface backed by this store.
func (s *Store) CatalogStore() driven.CatalogStore {
	return &catalogStore{store: s}
}

// EventLog returns an EventLog interface backed by this store.
func (s *Store) EventLog() driven.EventLog {
	return &eventLog{store: s}
}

// ImportProducts seeds the local catalog stand-in with items.
// Only the import command calls this; the core reads the catalog.
func (s *Store) ImportProducts(ctx context.Context, items []domain.CatalogItem) error {
	c := &catalogStore{store: s}
	for _, item := range items {
		if item.Slug == "" {
			return fmt.Errorf("%w: product without slug", domain.ErrInvalidArgument)
		}
		if err := c.Put(ctx, item); err != nil {
			return fmt.Errorf("import %s: %w", item.Slug, err)
		}
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// storeError maps driver failures onto the domain taxonomy. Any timeout
// or connection problem reads as the store being unavailable.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s timed out: %v", domain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

// ==================== Catalog Store ====================

// rawMedia is the media row shape as stored by the platform.
type rawMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// rawSize is the size row shape as stored by the platform, with pricing
// nested under price.marked/price.effective.
type rawSize struct {
	Size  string `json:"size"`
	Price struct {
		Marked struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"marked"`
		Effective struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"effective"`
	} `json:"price"`
	Sellable bool `json:"sellable"`
}

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// FetchAll reads the entire catalog and normalizes it. All-or-nothing:
// any row failure aborts the read with no partial result.
func (c *catalogStore) FetchAll(ctx context.Context) ([]domain.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT slug, name, description, short_description, category_slug, brand, media, all_sizes
		FROM products
		ORDER BY slug
	`)
	if err != nil {
		return nil, storeError("query products", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.CatalogItem
		var mediaJSON, sizesJSON string
		if err := rows.Scan(&item.Slug, &item.Name, &item.Description, &item.ShortDescription,
			&item.CategorySlug, &item.BrandName, &mediaJSON, &sizesJSON); err != nil {
			return nil, storeError("scan product", err)
		}

		item.Media = normalizeMedia(mediaJSON)
		item.Sizes = normalizeSizes(sizesJSON)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate products", err)
	}

	return items, nil
}

// Put stores or replaces one raw product row. Used by the import command
// to seed the local stand-in; the core never writes the catalog.
func (c *catalogStore) Put(ctx context.Context, item domain.CatalogItem) error {
	mediaJSON, err := json.Marshal(denormalizeMedia(item.Media))
	if err != nil {
		return fmt.Errorf("marshalling media: %w", err)
	}
	sizesJSON, err := json.Marshal(denormalizeSizes(item.Sizes))
	if err != nil {
		return fmt.Errorf("marshalling sizes: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO products (slug, name, description, short_description, category_slug, brand, media, all_sizes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			short_description = excluded.short_description,
			category_slug = excluded.category_slug,
			brand = excluded.brand,
			media = excluded.media,
			all_sizes = excluded.all_sizes,
			updated_at = excluded.updated_at
	`, item.Slug, item.Name, item.Description, item.ShortDescription,
		item.CategorySlug, item.BrandName, string(mediaJSON), string(sizesJSON), time.Now().UTC())

	if err != nil {
		return storeError("save product", err)
	}
	return nil
}

// normalizeMedia maps the raw JSON media column to the domain shape.
// Malformed or missing JSON normalizes to an empty slice, never nil.
func normalizeMedia(mediaJSON string) []domain.Media {
	var raw []rawMedia
	if err := json.Unmarshal([]byte(mediaJSON), &raw); err != nil {
		return []domain.Media{}
	}

	media := make([]domain.Media, len(raw))
	for i, m := range raw {
		media[i] = domain.Media{URL: m.URL, Type: m.Type}
	}
	return media
}

// normalizeSizes maps the raw JSON all_sizes column to the domain shape,
// flattening the nested price structure.
func normalizeSizes(sizesJSON string) []domain.Size {
	var raw []rawSize
	if err := json.Unmarshal([]byte(sizesJSON), &raw); err != nil {
		return []domain.Size{}
	}

	sizes := make([]domain.Size, len(raw))
	for i, s := range raw {
		sizes[i] = domain.Size{
			Size:        s.Size,
			MarkedPrice: domain.PriceRange{Min: s.Price.Marked.Min, Max: s.Price.Marked.Max},
			Effective:   domain.PriceRange{Min: s.Price.Effective.Min, Max: s.Price.Effective.Max},
			Sellable:    s.Sellable,
		}
	}
	return sizes
}

func denormalizeMedia(media []domain.Media) []rawMedia {
	raw := make([]rawMedia, len(media))
	for i, m := range media {
		raw[i] = rawMedia{URL: m.URL, Type: m.Type}
	}
	return raw
}

func denormalizeSizes(sizes []domain.Size) []rawSize {
	raw := make([]rawSize, len(sizes))
	for i, s := range sizes {
		var r rawSize
		r.Size = s.Size
		r.Price.Marked.Min = s.MarkedPrice.Min
		r.Price.Marked.Max = s.MarkedPrice.Max
		r.Price.Effective.Min = s.Effective.Min
		r.Price.Effective.Max = s.Effective.Max
		r.Sellable = s.Sellable
		raw[i] = r
	}
	return raw
}
