package admin

import (
	"context"

	"github.com/uptrace/bun"
)

// Schema holds the dashboard collection DDL, portable across sqlite and
// postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		username TEXT,
		name TEXT,
		email TEXT NOT NULL,
		phone TEXT,
		is_email_verified BOOLEAN DEFAULT false,
		status TEXT DEFAULT 'active',
		joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		discount REAL DEFAULT 0,
		category TEXT,
		images TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		order_status TEXT,
		payment_status TEXT,
		total_amount REAL DEFAULT 0,
		refund TEXT,
		payment_qr TEXT,
		order_delivered BOOLEAN DEFAULT false,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		order_id TEXT,
		customer_id TEXT,
		customer_name TEXT,
		transaction_id TEXT,
		amount REAL DEFAULT 0,
		status TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates the dashboard tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, ddl := range Schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
