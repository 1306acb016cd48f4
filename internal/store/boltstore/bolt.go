// Package boltstore хранит документы в файле bbolt, по бакету на коллекцию.
package boltstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"ai-interview/internal/store"
)

// Store - хранилище на bbolt
type Store struct {
	db   *bolt.DB
	path string
}

// Open открывает (или создает) файл bbolt и бакеты приложения
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{store.Sessions, store.QuestionSets, store.Settings} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{db: s.db, bucket: []byte(name)}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type collection struct {
	db     *bolt.DB
	bucket []byte
}

func (c *collection) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return store.ErrNotFound
		}
		data := b.Get([]byte(id))
		if data == nil {
			return store.ErrNotFound
		}
		// память bbolt действительна только внутри транзакции
		out = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection) Find(ctx context.Context, q store.Query) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var docs [][]byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			docs = append(docs, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.bucket, err)
	}
	return store.Select(docs, q)
}

func (c *collection) Insert(ctx context.Context, id string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepared, err := store.Prepare(id, doc)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(c.bucket)
		if err != nil {
			return err
		}
		if b.Get([]byte(id)) != nil {
			return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, c.bucket, id)
		}
		return b.Put([]byte(id), prepared)
	})
}

func (c *collection) UpdateFields(ctx context.Context, id string, fields map[string]any, ifRevision int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := store.CheckFields(fields); err != nil {
		return 0, err
	}
	var matched int64
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil {
			return nil
		}
		existing := b.Get([]byte(id))
		if existing == nil {
			return nil
		}
		updated, ok, err := store.Merge(existing, fields, ifRevision)
		if err != nil || !ok {
			return err
		}
		if err := b.Put([]byte(id), updated); err != nil {
			return err
		}
		matched = 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update %s/%s: %w", c.bucket, id, err)
	}
	return matched, nil
}

func (c *collection) Delete(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var deleted int64
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b == nil || b.Get([]byte(id)) == nil {
			return nil
		}
		deleted = 1
		return b.Delete([]byte(id))
	})
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", c.bucket, id, err)
	}
	return deleted, nil
}
