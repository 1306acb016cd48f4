package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-interview/internal/interview"
	"ai-interview/internal/store"
)

// Settings хранит единственную запись с наборами по умолчанию
type Settings struct {
	coll store.Collection
}

func NewSettings(s store.Store) *Settings {
	return &Settings{coll: s.Collection(store.Settings)}
}

// Defaults возвращает запись или interview.ErrNotFound
func (r *Settings) Defaults(ctx context.Context) (*interview.DefaultConfig, error) {
	data, err := r.coll.Get(ctx, interview.DefaultConfigID)
	if err != nil {
		return nil, mapStoreError(err, "default configuration", interview.DefaultConfigID)
	}
	var cfg interview.DefaultConfig
	if err := decode(store.Settings, interview.DefaultConfigID, data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateDefaults сохраняет cfg, если записи еще нет, иначе interview.ErrDuplicateID
func (r *Settings) CreateDefaults(ctx context.Context, cfg *interview.DefaultConfig) error {
	cfg.ID = interview.DefaultConfigID
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default configuration: %w", err)
	}
	if err := r.coll.Insert(ctx, cfg.ID, data); err != nil {
		return mapStoreError(err, "default configuration", cfg.ID)
	}
	cfg.Revision = 1
	return nil
}

// SaveDefaults записывает cfg, если его не меняли после чтения
func (r *Settings) SaveDefaults(ctx context.Context, cfg *interview.DefaultConfig) error {
	if err := save(ctx, r.coll, interview.DefaultConfigID, cfg.Revision, cfg, "default configuration"); err != nil {
		return err
	}
	cfg.Revision++
	return nil
}
