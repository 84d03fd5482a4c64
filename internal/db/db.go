package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the catalog in process memory only.
const MemoryDSN = ":memory:"

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS restaurants (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL CHECK(length(name) > 0),
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS menus (
    id            TEXT PRIMARY KEY,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
    position      INTEGER NOT NULL,
    name          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS menu_items (
    id       TEXT PRIMARY KEY,
    menu_id  TEXT NOT NULL REFERENCES menus(id),
    position INTEGER NOT NULL,
    name     TEXT NOT NULL DEFAULT '',
    price    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS links (
    id            TEXT PRIMARY KEY,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
    position      INTEGER NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    url           TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS images (
    id            TEXT PRIMARY KEY,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
    position      INTEGER NOT NULL,
    src           TEXT NOT NULL,
    alt           TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_menus_restaurant_id ON menus(restaurant_id, position);
CREATE INDEX IF NOT EXISTS idx_menu_items_menu_id ON menu_items(menu_id, position);
CREATE INDEX IF NOT EXISTS idx_links_restaurant_id ON links(restaurant_id, position);
CREATE INDEX IF NOT EXISTS idx_images_restaurant_id ON images(restaurant_id, position);
`

// Open opens the catalog database and initializes the schema.
//
// A single connection is used so that an in-memory database is shared by
// every query; each new SQLite connection to :memory: would otherwise get its
// own empty database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// OpenMemory opens a fresh catalog that lives only as long as the process.
func OpenMemory() (*sql.DB, error) {
	return Open(MemoryDSN)
}
