// Package sqlite es el adaptador de persistencia embebido (un archivo o :memory:) para
// despliegues de una sola farmacia sin servidor PostgreSQL.
package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Montos como TEXT (decimal exacto) y fechas como TEXT UTC de ancho fijo: el orden lexicográfico es el cronológico.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id           TEXT PRIMARY KEY,
		name         TEXT    NOT NULL,
		contact_name TEXT    NOT NULL DEFAULT '',
		phone        TEXT    NOT NULL DEFAULT '',
		email        TEXT    NOT NULL DEFAULT '',
		address      TEXT    NOT NULL DEFAULT '',
		active       INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT    NOT NULL,
		updated_at   TEXT    NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT    NOT NULL,
		barcode     TEXT    NOT NULL DEFAULT '',
		category_id TEXT    NOT NULL DEFAULT '',
		supplier_id TEXT REFERENCES suppliers (id),
		quantity    INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		min_stock   INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
		cost_price  TEXT    NOT NULL DEFAULT '0',
		sale_price  TEXT    NOT NULL DEFAULT '0',
		expiry_date TEXT,
		created_at  TEXT    NOT NULL,
		updated_at  TEXT    NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS restock_events (
		id           TEXT PRIMARY KEY,
		product_id   TEXT    NOT NULL REFERENCES products (id),
		supplier_id  TEXT    NOT NULL REFERENCES suppliers (id),
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		cost_price   TEXT    NOT NULL,
		restock_date TEXT    NOT NULL,
		batch_number TEXT    NOT NULL DEFAULT '',
		created_by   TEXT    NOT NULL DEFAULT '',
		created_at   TEXT    NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_restock_events_supplier_date ON restock_events (supplier_id, restock_date);`,
	`CREATE INDEX IF NOT EXISTS idx_restock_events_product_date ON restock_events (product_id, restock_date);`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL,
		name          TEXT    NOT NULL DEFAULT '',
		role          TEXT    NOT NULL CHECK (role IN ('admin', 'pharmacist', 'cashier')),
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT    NOT NULL,
		updated_at    TEXT    NOT NULL
	);`,
}

// Open abre la base SQLite en path (":memory:" para pruebas), activa claves foráneas y aplica el esquema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor; con :memory: además cada conexión sería una base distinta.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("activar foreign_keys: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate crea las tablas e índices si no existen.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migración sqlite: %w", err)
		}
	}
	return nil
}

const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
