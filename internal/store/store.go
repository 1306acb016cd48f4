// Package store описывает документное хранилище интервью.
//
// Документы - JSON объекты. Поля "id" и "revision" принадлежат хранилищу:
// Insert ставит revision в 1, каждый успешный UpdateFields увеличивает его,
// и запись можно делать условной по прочитанной ревизии.
package store

import (
	"context"
	"errors"
)

// Имена коллекций
const (
	Sessions     = "sessions"
	QuestionSets = "question_sets"
	Settings     = "settings"
)

// AnyRevision делает UpdateFields безусловным
const AnyRevision int64 = 0

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrReservedField = errors.New("field is managed by the store")
	ErrNotObject     = errors.New("document is not a JSON object")
)

// Query выбирает документы из коллекции.
// Ключи Equals могут быть путями через точку ("overall_assessment.status").
// Пустой SortBy оставляет порядок по id
type Query struct {
	Equals     map[string]any
	SortBy     string
	Descending bool
	Skip       int
	Limit      int
}

// Collection - именованный набор документов
type Collection interface {
	// Get возвращает документ или ErrNotFound
	Get(ctx context.Context, id string) ([]byte, error)
	// Find возвращает документы, подходящие под q
	Find(ctx context.Context, q Query) ([][]byte, error)
	// Insert сохраняет doc под id, для существующего id возвращает ErrDuplicate
	Insert(ctx context.Context, id string, doc []byte) error
	// UpdateFields задает поля верхнего уровня, если ревизия документа равна
	// ifRevision (или ifRevision == AnyRevision). Возвращает число совпавших
	// документов: 0, если документа нет или ревизия уже другая
	UpdateFields(ctx context.Context, id string, fields map[string]any, ifRevision int64) (int64, error)
	// Delete удаляет документ и возвращает число удаленных
	Delete(ctx context.Context, id string) (int64, error)
}

// Store выдает коллекции и владеет соединением
type Store interface {
	Collection(name string) Collection
	Close() error
}
