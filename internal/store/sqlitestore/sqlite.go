// Package sqlitestore хранит документы как JSON текст в одной таблице SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ai-interview/internal/store"
)

// maxUpdateAttempts ограничивает повторы безусловного обновления при гонке
const maxUpdateAttempts = 5

// Store - хранилище на SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open открывает базу и применяет новые миграции
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// иначе у каждого соединения пула будет своя пустая база
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // должен идти первым
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{db: s.db, name: name}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type collection struct {
	db   *sql.DB
	name string
}

func (c *collection) Get(ctx context.Context, id string) ([]byte, error) {
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, c.name, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return []byte(data), nil
}

func (c *collection) Find(ctx context.Context, q store.Query) ([][]byte, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? ORDER BY id`, c.name)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		docs = append(docs, []byte(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.name, err)
	}
	return store.Select(docs, q)
}

func (c *collection) Insert(ctx context.Context, id string, doc []byte) error {
	prepared, err := store.Prepare(id, doc)
	if err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, revision, data, updated_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT (collection, id) DO NOTHING`,
		c.name, id, string(prepared), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.name, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, c.name, id)
	}
	return nil
}

// UpdateFields сливает поля в Go и пишет одним UPDATE с условием на
// прочитанную ревизию, без транзакции на время слияния
func (c *collection) UpdateFields(ctx context.Context, id string, fields map[string]any, ifRevision int64) (int64, error) {
	if err := store.CheckFields(fields); err != nil {
		return 0, err
	}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var (
			data     string
			revision int64
		)
		err := c.db.QueryRowContext(ctx,
			`SELECT data, revision FROM documents WHERE collection = ? AND id = ?`, c.name, id).
			Scan(&data, &revision)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("update %s/%s: %w", c.name, id, err)
		}
		if ifRevision != store.AnyRevision && revision != ifRevision {
			return 0, nil
		}

		updated, ok, err := store.Merge([]byte(data), fields, revision)
		if err != nil {
			return 0, fmt.Errorf("update %s/%s: %w", c.name, id, err)
		}
		if !ok {
			// data и колонка revision расходятся, считаем что гонку проиграли
			continue
		}

		res, err := c.db.ExecContext(ctx,
			`UPDATE documents SET data = ?, revision = ?, updated_at = ?
			 WHERE collection = ? AND id = ? AND revision = ?`,
			string(updated), revision+1, time.Now().UTC(), c.name, id, revision)
		if err != nil {
			return 0, fmt.Errorf("update %s/%s: %w", c.name, id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update %s/%s: %w", c.name, id, err)
		}
		if n == 1 {
			return 1, nil
		}
		if ifRevision != store.AnyRevision {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("update %s/%s: too much contention", c.name, id)
}

func (c *collection) Delete(ctx context.Context, id string) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return n, nil
}
