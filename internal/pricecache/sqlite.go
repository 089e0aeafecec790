package pricecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteCache keeps fetched series in a SQLite database, one row per
// (symbol, window, day).
type SQLiteCache struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.FromContext(context.Background()).Infow("sqlite price cache opened", "path", dbPath)
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_series (
			symbol     TEXT    NOT NULL,
			history_window INTEGER NOT NULL,
			day        TEXT    NOT NULL,
			points     INTEGER NOT NULL,
			chunk      BLOB    NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, history_window, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_series_day ON price_series(day)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ctx context.Context, key Key) ([]model.PricePoint, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT chunk FROM price_series WHERE symbol = ? AND history_window = ? AND day = ?`,
		key.Symbol, key.Window, key.Day,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cached series: %w", err)
	}

	points, err := DecodePoints(blob)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached series %s/%d/%s: %w", key.Symbol, key.Window, key.Day, err)
	}
	return points, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, key Key, points []model.PricePoint) error {
	blob, err := EncodePoints(points)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx, `INSERT OR REPLACE INTO price_series
		(symbol, history_window, day, points, chunk, created_at)
		VALUES (?,?,?,?,?,?)`,
		key.Symbol, key.Window, key.Day, len(points), blob, time.Now().Unix(),
	)
	return err
}

// Prune deletes rows cached before the given day.
func (c *SQLiteCache) Prune(ctx context.Context, before time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM price_series WHERE day < ?`, before.UTC().Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("prune price cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	logger.FromContext(context.Background()).Info("closing sqlite price cache")
	return c.db.Close()
}
