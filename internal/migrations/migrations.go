package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema for the purchase order ledger.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('admin', 'agent')),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
            id INTEGER PRIMARY KEY,
            date TEXT NOT NULL,
            supplier TEXT NOT NULL,
            total_amount REAL NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
            paid_amount REAL NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_orders_date ON purchase_orders (date);`,
		`CREATE TABLE IF NOT EXISTS purchase_order_items (
            id INTEGER PRIMARY KEY,
            product TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price REAL CHECK (price IS NULL OR price > 0),
            purchase_order_id INTEGER NOT NULL,
            FOREIGN KEY (purchase_order_id) REFERENCES purchase_orders(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_order_items_order ON purchase_order_items (purchase_order_id);`,
		`CREATE TABLE IF NOT EXISTS purchase_order_payments (
            id INTEGER PRIMARY KEY,
            amount REAL NOT NULL CHECK (amount > 0),
            method TEXT NOT NULL CHECK (method IN ('check', 'cash')),
            purchase_order_id INTEGER NOT NULL,
            FOREIGN KEY (purchase_order_id) REFERENCES purchase_orders(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_order_payments_order ON purchase_order_payments (purchase_order_id);`,
		`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY,
            product TEXT NOT NULL UNIQUE,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            last_price REAL NOT NULL CHECK (last_price > 0)
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	return nil
}
