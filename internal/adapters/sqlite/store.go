package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"segnalibro/internal/domain"
	"segnalibro/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// RootID is the id of the synthetic root folder every tree hangs off.
const RootID = "0"

// PrimaryID is the id of the seeded top-level folder.
const PrimaryID = "1"

// Store implements ports.BookmarkStore and ports.Notifier on SQLite. Full
// text search runs on an FTS5 shadow table kept in step by triggers.
type Store struct {
	db     *sql.DB
	dbPath string
	feed   *feed
}

// Ensure Store satisfies the ports it claims
var (
	_ ports.BookmarkStore = (*Store)(nil)
	_ ports.Notifier      = (*Store)(nil)
)

// Open opens (creating if needed) the bookmark database at dbPath.
func Open(dbPath string) (*Store, error) {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL mode so the TUI and CLI can share the file
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath, feed: newFeed()}
	if err := s.setup(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// setup applies pragmas, schema and seed rows in one batch.
func (s *Store) setup() error {
	_, err := s.db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			date_added INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);

		CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			title, url,
			content='nodes', content_rowid='rowid'
		);
		CREATE TRIGGER IF NOT EXISTS nodes_fts_insert AFTER INSERT ON nodes BEGIN
			INSERT INTO nodes_fts(rowid, title, url) VALUES (new.rowid, new.title, new.url);
		END;
		CREATE TRIGGER IF NOT EXISTS nodes_fts_delete AFTER DELETE ON nodes BEGIN
			INSERT INTO nodes_fts(nodes_fts, rowid, title, url) VALUES ('delete', old.rowid, old.title, old.url);
		END;
		CREATE TRIGGER IF NOT EXISTS nodes_fts_update AFTER UPDATE ON nodes BEGIN
			INSERT INTO nodes_fts(nodes_fts, rowid, title, url) VALUES ('delete', old.rowid, old.title, old.url);
			INSERT INTO nodes_fts(rowid, title, url) VALUES (new.rowid, new.title, new.url);
		END;

		INSERT OR IGNORE INTO nodes (id, parent_id, title, url, position, date_added)
			VALUES ('` + RootID + `', '', '', '', 0, 0);
		INSERT OR IGNORE INTO nodes (id, parent_id, title, url, position, date_added)
			VALUES ('` + PrimaryID + `', '` + RootID + `', 'Bookmarks', '', 0, 0);
		INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', '` + schemaVersion + `');
	`)
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	return nil
}

// Close shuts the change feed and the database connection.
func (s *Store) Close() error {
	s.feed.close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns where the database lives on disk.
func (s *Store) Path() string {
	return s.dbPath
}

// Subscribe attaches a listener to the change feed.
func (s *Store) Subscribe() (<-chan domain.Event, func()) {
	return s.feed.subscribe()
}

const nodeColumns = "id, parent_id, title, url, position, date_added"

// Node returns a single node without children.
func (s *Store) Node(ctx context.Context, id string) (*domain.Node, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE id = ?
	`, id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load node %s: %w", id, err)
	}
	return n, nil
}

// Children returns the direct children of a folder in display order. A
// folder with nothing in it yields an empty, non-nil slice.
func (s *Store) Children(ctx context.Context, folderID string) ([]*domain.Node, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM nodes WHERE id = ?`, folderID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load folder %s: %w", folderID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE parent_id = ? ORDER BY position
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}
	defer rows.Close()

	children := []*domain.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return children, rows.Err()
}

// FullTree loads every node and assembles the tree below the root. Every
// folder in the result carries a non-nil children slice.
func (s *Store) FullTree(ctx context.Context) (*domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Node)
	var all []*domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		if n.IsFolder() {
			n.Children = []*domain.Node{}
		}
		byID[n.ID] = n
		all = append(all, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	root, ok := byID[RootID]
	if !ok {
		return nil, fmt.Errorf("failed to load tree: %w", domain.ErrNotFound)
	}
	for _, n := range all {
		if n.ID == RootID {
			continue
		}
		if parent, ok := byID[n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	return root, nil
}

// Search matches the query against titles and URLs, best matches first.
// Queries that trip the FTS5 syntax fall back to a plain substring scan
// rather than failing.
func (s *Store) Search(ctx context.Context, query string) ([]*domain.Node, error) {
	if match := ftsQuery(query); match != "" {
		found, err := s.queryNodes(ctx, `
			SELECT n.id, n.parent_id, n.title, n.url, n.position, n.date_added
			FROM nodes_fts f
			JOIN nodes n ON n.rowid = f.rowid
			WHERE nodes_fts MATCH ? AND n.id != ?
			ORDER BY bm25(nodes_fts)
			LIMIT 200
		`, match, RootID)
		if err == nil {
			return found, nil
		}
	}

	found, err := s.queryNodes(ctx, `
		SELECT `+nodeColumns+` FROM nodes
		WHERE (title LIKE ? OR url LIKE ?) AND id != ?
		ORDER BY position
		LIMIT 200
	`, "%"+query+"%", "%"+query+"%", RootID)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return found, nil
}

func (s *Store) queryNodes(ctx context.Context, query string, args ...any) ([]*domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, n)
	}
	return found, rows.Err()
}

// ftsQuery turns free text into an FTS5 prefix query, one quoted phrase
// per whitespace-separated token.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		terms = append(terms, `"`+strings.ReplaceAll(field, `"`, `""`)+`"*`)
	}
	return strings.Join(terms, " ")
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNode(sc scanner) (*domain.Node, error) {
	var n domain.Node
	var addedMillis int64
	if err := sc.Scan(&n.ID, &n.ParentID, &n.Title, &n.URL, &n.Position, &addedMillis); err != nil {
		return nil, err
	}
	if addedMillis > 0 {
		n.DateAdded = time.UnixMilli(addedMillis)
	}
	return &n, nil
}
