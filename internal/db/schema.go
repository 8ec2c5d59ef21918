package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id           SERIAL PRIMARY KEY,
		first_name   TEXT NOT NULL,
		last_name    TEXT NOT NULL,
		email        TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		company      TEXT NOT NULL DEFAULT '',
		position     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'pending',
		street       TEXT NOT NULL DEFAULT '',
		city         TEXT NOT NULL DEFAULT '',
		state        TEXT NOT NULL DEFAULT '',
		zip_code     TEXT NOT NULL DEFAULT '',
		revenue      DOUBLE PRECISION NOT NULL DEFAULT 0,
		tags         JSONB NOT NULL DEFAULT '[]',
		date_created TIMESTAMPTZ NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS customers_email_key ON customers (lower(email))`,
	`CREATE TABLE IF NOT EXISTS products (
		id             SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		price          DOUBLE PRECISION NOT NULL,
		original_price DOUBLE PRECISION,
		category       TEXT NOT NULL DEFAULT '',
		brand          TEXT NOT NULL DEFAULT '',
		rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count   INTEGER NOT NULL DEFAULT 0,
		stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image          TEXT NOT NULL DEFAULT '',
		thumbnail      TEXT NOT NULL DEFAULT '',
		variants       JSONB NOT NULL DEFAULT '[]',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id           TEXT PRIMARY KEY,
		tracking_number    TEXT NOT NULL,
		estimated_delivery TIMESTAMPTZ NOT NULL,
		items              JSONB NOT NULL,
		shipping           JSONB NOT NULL,
		promo_code         TEXT NOT NULL DEFAULT '',
		subtotal           DOUBLE PRECISION NOT NULL,
		discount           DOUBLE PRECISION NOT NULL,
		shipping_cost      DOUBLE PRECISION NOT NULL,
		tax                DOUBLE PRECISION NOT NULL,
		total              DOUBLE PRECISION NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at)`,
}

// Migrate creates the tables the repositories expect when they are missing.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// SyncProductSequence moves the products id sequence past the highest id so
// inserts after an upsert-with-id seed do not collide.
func SyncProductSequence(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('products', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM products), 1))`)
	return err
}
