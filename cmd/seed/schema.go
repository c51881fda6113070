package main

import (
	"context"
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

// schemaStatements create the configuration and fact tables. Sale dates
// stay DD/MM/YYYY text because that is what the upstream feed delivers;
// the read side converts with to_date.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS store_config (
		raw_name    TEXT PRIMARY KEY,
		clean_name  TEXT NOT NULL,
		region      TEXT NOT NULL DEFAULT '',
		fixed_store BOOLEAN NOT NULL DEFAULT FALSE,
		store_type  TEXT NOT NULL DEFAULT 'store'
	)`,
	`CREATE TABLE IF NOT EXISTS stock_minimums (
		bucket   TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fixed_references (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS multi_brands (
		brand TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS excluded_codes (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS stock_positions (
		store_raw   TEXT NOT NULL,
		code        TEXT NOT NULL,
		brand       TEXT,
		color       TEXT,
		quantity    INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (store_raw, code)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_stock (
		code     TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sales_history (
		id        BIGSERIAL PRIMARY KEY,
		store_raw TEXT NOT NULL,
		code      TEXT NOT NULL,
		brand     TEXT,
		units     INTEGER NOT NULL DEFAULT 0,
		sold_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_history_store_code ON sales_history (store_raw, code)`,
}

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	log.Println("Schema created")
	return nil
}
