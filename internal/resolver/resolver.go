// Package resolver находит набор вопросов для фазы интервью.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"ai-interview/internal/interview"
)

// Defaults возвращает запись с наборами по умолчанию
type Defaults interface {
	Defaults(ctx context.Context) (*interview.DefaultConfig, error)
}

// Sets ищет наборы по id
type Sets interface {
	Get(ctx context.Context, id string) (*interview.QuestionSet, error)
}

// Resolved - выбранный набор и снимок его вопросов
type Resolved struct {
	SetID    string
	Snapshot []interview.QuestionSnapshot
}

// Resolver находит набор вопросов для фазы по настройкам по умолчанию
type Resolver struct {
	defaults Defaults
	sets     Sets
}

// New создает резолвер поверх хранилищ настроек и наборов
func New(defaults Defaults, sets Sets) *Resolver {
	return &Resolver{defaults: defaults, sets: sets}
}

// Resolve возвращает снимок для kind. Все ошибки оборачивают
// interview.ErrConfiguration: слот пуст или набора нет (ErrConfigurationMissing),
// вид не совпадает (ErrConfigurationMismatch), вопросов нет (ErrEmptySet)
func (r *Resolver) Resolve(ctx context.Context, kind interview.Kind) (*Resolved, error) {
	cfg, err := r.defaults.Defaults(ctx)
	if errors.Is(err, interview.ErrNotFound) {
		return nil, fmt.Errorf("%w: no default configuration", interview.ErrConfigurationMissing)
	}
	if err != nil {
		return nil, err
	}

	slot := cfg.Slot(kind)
	if slot == nil {
		return nil, fmt.Errorf("%w: no %s question set selected", interview.ErrConfigurationMissing, kind)
	}

	set, err := r.sets.Get(ctx, *slot)
	if errors.Is(err, interview.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s question set %q does not exist", interview.ErrConfigurationMissing, kind, *slot)
	}
	if err != nil {
		return nil, err
	}

	if set.Kind != kind {
		return nil, fmt.Errorf("%w: set %q is %s, slot is %s", interview.ErrConfigurationMismatch, set.ID, set.Kind, kind)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: %s question set %q", interview.ErrEmptySet, kind, set.ID)
	}

	return &Resolved{SetID: set.ID, Snapshot: set.Snapshot()}, nil
}
