package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

type tableSpec struct {
	table    string
	file     string
	columns  []string
	conflict string
}

var configTables = []tableSpec{
	{
		table:    "store_config",
		file:     "store_config.csv",
		columns:  []string{"raw_name", "clean_name", "region", "fixed_store", "store_type"},
		conflict: "raw_name",
	},
	{
		table:    "stock_minimums",
		file:     "stock_minimums.csv",
		columns:  []string{"bucket", "quantity"},
		conflict: "bucket",
	},
	{
		table:    "fixed_references",
		file:     "fixed_references.csv",
		columns:  []string{"code"},
		conflict: "code",
	},
	{
		table:    "multi_brands",
		file:     "multi_brands.csv",
		columns:  []string{"brand"},
		conflict: "brand",
	},
	{
		table:    "excluded_codes",
		file:     "excluded_codes.csv",
		columns:  []string{"code"},
		conflict: "code",
	},
}

var factTables = []tableSpec{
	{
		table:    "stock_positions",
		file:     "stock_positions.csv",
		columns:  []string{"store_raw", "code", "brand", "color", "quantity", "recorded_at"},
		conflict: "store_raw, code",
	},
	{
		table:    "warehouse_stock",
		file:     "warehouse_stock.csv",
		columns:  []string{"code", "quantity"},
		conflict: "code",
	},
	{
		table:   "sales_history",
		file:    "sales_history.csv",
		columns: []string{"store_raw", "code", "brand", "units", "sold_at"},
	},
}

func runConfigSeed(c *cli.Context) error {
	return runTableSeed(c, configTables)
}

func runFactsSeed(c *cli.Context) error {
	return runTableSeed(c, factTables)
}

func runTableSeed(c *cli.Context, specs []tableSpec) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dataDir := c.String("data-dir")
	for _, spec := range specs {
		if err := seedTable(ctx, tx, spec, filepath.Join(dataDir, spec.file)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Println("Seeding completed")
	return nil
}

func seedTable(ctx context.Context, tx *sql.Tx, spec tableSpec, filePath string) error {
	log.Printf("Seeding %s from %s\n", spec.table, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Skipping %s: no seed file\n", spec.table)
			return nil
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	placeholders := make([]string, len(spec.columns))
	for i := range spec.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.table,
		strings.Join(spec.columns, ", "),
		strings.Join(placeholders, ", "),
	)
	if spec.conflict != "" {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", spec.conflict, buildUpdateClause(spec.columns))
	}

	count := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		args := make([]interface{}, len(spec.columns))
		for i, col := range spec.columns {
			idx := columnIndex(header, col)
			if idx < 0 || idx >= len(record) {
				return fmt.Errorf("missing column %q in %s", col, filePath)
			}
			args[i] = nullIfEmpty(record[idx])
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", spec.table, err)
		}
		count++
	}

	log.Printf("Seeded %d rows into %s\n", count, spec.table)
	return nil
}

func buildUpdateClause(columns []string) string {
	clauses := make([]string, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return strings.Join(clauses, ", ")
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

// nullIfEmpty returns NULL for empty cells so optional columns stay
// NULL instead of empty strings.
func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
