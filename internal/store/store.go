// Package store keeps a local history of published pages in SQLite.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

var migrations = []Migration{
	{
		Name: "create_pages_table",
		Up: `
			CREATE TABLE IF NOT EXISTS pages (
				id INTEGER PRIMARY KEY,
				file TEXT NOT NULL,
				contract TEXT NOT NULL,
				tx_hash TEXT NOT NULL,
				declare_tx TEXT NOT NULL DEFAULT '',
				page_id INTEGER,
				size INTEGER NOT NULL,
				minified_size INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		Name: "index_pages_created_at",
		Up:   `CREATE INDEX IF NOT EXISTS pages_created_at ON pages (created_at);`,
	},
}

// Page is one published page.
type Page struct {
	ID           int64     `db:"id"`
	File         string    `db:"file"`
	Contract     string    `db:"contract"`
	TxHash       string    `db:"tx_hash"`
	DeclareTx    string    `db:"declare_tx"`
	PageID       *int64    `db:"page_id"`
	Size         int       `db:"size"`
	MinifiedSize int       `db:"minified_size"`
	CreatedAt    time.Time `db:"created_at"`
}

// PageStore records published pages.
type PageStore struct {
	DB     *sqlx.DB
	Logger *slog.Logger
}

// Open opens or creates the SQLite database at path and migrates it.
func Open(path string, logger *slog.Logger) (*PageStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	m := &Migrator{DB: db}
	if err := m.Up(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("history opened", "path", path)
	return &PageStore{DB: db, Logger: logger}, nil
}

// Add inserts p and returns its row ID. A zero CreatedAt is set to now.
func (ps *PageStore) Add(p Page) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	result, err := ps.DB.NamedExec(`
		INSERT INTO pages (file, contract, tx_hash, declare_tx, page_id, size, minified_size, created_at)
		VALUES (:file, :contract, :tx_hash, :declare_tx, :page_id, :size, :minified_size, :created_at)
	`, p)
	if err != nil {
		return 0, fmt.Errorf("failed to add page: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// List returns up to limit pages, newest first. A limit <= 0 returns all.
func (ps *PageStore) List(limit int) ([]Page, error) {
	var pages []Page
	var err error
	if limit > 0 {
		err = ps.DB.Select(&pages, "SELECT * FROM pages ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	} else {
		err = ps.DB.Select(&pages, "SELECT * FROM pages ORDER BY created_at DESC, id DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

func (ps *PageStore) Close() error {
	return ps.DB.Close()
}
