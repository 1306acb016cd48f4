// Package repository превращает документы хранилища в проверенные доменные
// значения. Поврежденные документы дают interview.ErrCorruptDocument.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-interview/internal/interview"
	"ai-interview/internal/store"
)

// ErrConflict - условная запись проиграла параллельной
var ErrConflict = errors.New("document changed concurrently")

func decode(collection, id string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", interview.ErrCorruptDocument, collection, id, err)
	}
	return nil
}

// mutableFields раскладывает v на поля верхнего уровня без служебных
func mutableFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	delete(raw, "id")
	delete(raw, "revision")

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[k] = v
	}
	return fields, nil
}

func mapStoreError(err error, what, id string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s %q", interview.ErrNotFound, what, id)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s %q", interview.ErrDuplicateID, what, id)
	}
	return err
}

// save записывает v, если документ все еще в ревизии revision.
// Иначе возвращает not found или ErrConflict
func save(ctx context.Context, c store.Collection, id string, revision int64, v any, what string) error {
	fields, err := mutableFields(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", what, id, err)
	}
	n, err := c.UpdateFields(ctx, id, fields, revision)
	if err != nil {
		return fmt.Errorf("save %s %s: %w", what, id, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := c.Get(ctx, id); err != nil {
		return mapStoreError(err, what, id)
	}
	return fmt.Errorf("%w: %s %s", ErrConflict, what, id)
}
