package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	a2anet "github.com/a2anet/a2anet-go"
)

// Store handles transcript persistence with a SQLite backend. One Store
// serves any number of contexts; sessions obtained through Provider share
// the underlying database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the session database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	// Enable WAL mode and busy timeout for better concurrent access
	db, err := sql.Open("sqlite", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_items (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		context_id TEXT NOT NULL,
		item TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_session_items_context ON session_items(context_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Provider returns a session provider backed by this store.
func (s *Store) Provider() a2anet.SessionProvider {
	return func(ctx context.Context, contextID string) (a2anet.Session, error) {
		return &sqliteSession{store: s, contextID: contextID}, nil
	}
}

// Session returns the session for a single context.
func (s *Store) Session(contextID string) a2anet.Session {
	return &sqliteSession{store: s, contextID: contextID}
}

type sqliteSession struct {
	store     *Store
	contextID string
}

func (s *sqliteSession) Items(ctx context.Context) ([]a2anet.Item, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT item FROM session_items WHERE context_id = ? ORDER BY seq`,
		s.contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session items: %w", err)
	}
	defer rows.Close()

	var items []a2anet.Item
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan session item: %w", err)
		}
		item, err := a2anet.UnmarshalItem(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode session item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *sqliteSession) AddItems(ctx context.Context, items ...a2anet.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		raw, err := a2anet.MarshalItem(item)
		if err != nil {
			return fmt.Errorf("failed to encode session item: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_items (context_id, item) VALUES (?, ?)`,
			s.contextID, string(raw)); err != nil {
			return fmt.Errorf("failed to insert session item: %w", err)
		}
	}

	return tx.Commit()
}

var _ a2anet.Session = (*sqliteSession)(nil)
