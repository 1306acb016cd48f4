package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-interview/internal/interview"
	"ai-interview/internal/store"
)

// QuestionSets читает и пишет наборы вопросов
type QuestionSets struct {
	coll store.Collection
}

// NewQuestionSets создает репозиторий наборов вопросов
func NewQuestionSets(s store.Store) *QuestionSets {
	return &QuestionSets{coll: s.Collection(store.QuestionSets)}
}

// Create сохраняет qs, для занятого id возвращает interview.ErrDuplicateID
func (r *QuestionSets) Create(ctx context.Context, qs *interview.QuestionSet) error {
	if err := qs.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode question set: %w", err)
	}
	if err := r.coll.Insert(ctx, qs.ID, data); err != nil {
		return mapStoreError(err, "question set", qs.ID)
	}
	qs.Revision = 1
	return nil
}

func (r *QuestionSets) Get(ctx context.Context, id string) (*interview.QuestionSet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty question set id", interview.ErrInvalidID)
	}
	data, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "question set", id)
	}
	return decodeQuestionSet(id, data)
}

// List возвращает наборы по имени, все или одного вида
func (r *QuestionSets) List(ctx context.Context, kind interview.Kind) ([]*interview.QuestionSet, error) {
	q := store.Query{SortBy: "name"}
	if kind != "" {
		q.Equals = map[string]any{"kind": string(kind)}
	}
	docs, err := r.coll.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list question sets: %w", err)
	}
	out := make([]*interview.QuestionSet, 0, len(docs))
	for _, data := range docs {
		qs, err := decodeQuestionSet("", data)
		if err != nil {
			return nil, err
		}
		out = append(out, qs)
	}
	return out, nil
}

// Save записывает qs, если его не меняли после чтения
func (r *QuestionSets) Save(ctx context.Context, qs *interview.QuestionSet) error {
	if err := qs.Validate(); err != nil {
		return err
	}
	if err := save(ctx, r.coll, qs.ID, qs.Revision, qs, "question set"); err != nil {
		return err
	}
	qs.Revision++
	return nil
}

func (r *QuestionSets) Delete(ctx context.Context, id string) error {
	n, err := r.coll.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question set %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: question set %q", interview.ErrNotFound, id)
	}
	return nil
}

func decodeQuestionSet(id string, data []byte) (*interview.QuestionSet, error) {
	var qs interview.QuestionSet
	if err := decode(store.QuestionSets, id, data, &qs); err != nil {
		return nil, err
	}
	if err := qs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrCorruptDocument, err)
	}
	return &qs, nil
}
