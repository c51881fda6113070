package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/jagimahalo/restock-backend/internal/config"
)

// DB wraps the shared connection pool. Writer transactions (seed loads,
// config edits) go through WithTx, which bounds their concurrency so a
// bulk load cannot starve the read-heavy report queries.
type DB struct {
	*sqlx.DB
	writers *semaphore.Weighted
}

var (
	dbInstance *DB
	dbOnce     sync.Once
)

// NewDB opens the process-wide pool on first call; later calls return
// the same instance.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	dbOnce.Do(func() {
		var pool *sqlx.DB
		pool, err = sqlx.Connect("postgres", dsn(cfg))
		if err != nil {
			err = fmt.Errorf("connect to %s/%s: %w", cfg.Host, cfg.DBName, err)
			return
		}

		pool.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 25))
		pool.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))
		pool.SetConnMaxLifetime(time.Duration(orDefault(cfg.ConnLifetimeMin, 5)) * time.Minute)

		dbInstance = &DB{
			DB:      pool,
			writers: semaphore.NewWeighted(int64(orDefault(cfg.MaxWriterTx, 10))),
		}
	})

	return dbInstance, err
}

func dsn(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// WithTx runs fn inside a transaction, holding a writer slot for its
// duration.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire writer slot: %w", err)
	}
	defer db.writers.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
