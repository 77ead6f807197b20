package local

import (
	"context"

	"github.com/uptrace/bun"
)

// Schema holds the provider table DDL, portable across sqlite and postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT,
		password_hash TEXT NOT NULL,
		is_email_verified BOOLEAN DEFAULT false,
		login_attempts INTEGER DEFAULT 0,
		login_attempt_at TIMESTAMP,
		loggedin_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS mail_tokens (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL,
		purpose TEXT NOT NULL,
		status TEXT NOT NULL,
		email TEXT NOT NULL,
		used_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP
	)`,
}

// EnsureSchema creates the provider tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, ddl := range Schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
