// Package admin отвечает за администрирование: наборы вопросов, наборы по
// умолчанию с проверкой ссылок и начальное заполнение.
package admin

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ai-interview/internal/interview"
)

// SetStore хранит наборы вопросов
type SetStore interface {
	Create(ctx context.Context, qs *interview.QuestionSet) error
	Get(ctx context.Context, id string) (*interview.QuestionSet, error)
	List(ctx context.Context, kind interview.Kind) ([]*interview.QuestionSet, error)
	Save(ctx context.Context, qs *interview.QuestionSet) error
	Delete(ctx context.Context, id string) error
}

// SettingsStore хранит наборы по умолчанию
type SettingsStore interface {
	Defaults(ctx context.Context) (*interview.DefaultConfig, error)
	CreateDefaults(ctx context.Context, cfg *interview.DefaultConfig) error
	SaveDefaults(ctx context.Context, cfg *interview.DefaultConfig) error
}

// maxWriteAttempts ограничивает повторы после проигранной условной записи
const maxWriteAttempts = 5

// Service управляет наборами вопросов и настройками по умолчанию
type Service struct {
	sets     SetStore
	settings SettingsStore
	log      zerolog.Logger
	now      func() time.Time
}

// New создает сервис администрирования
func New(sets SetStore, settings SettingsStore, log zerolog.Logger) *Service {
	return &Service{
		sets:     sets,
		settings: settings,
		log:      log.With().Str("component", "admin").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}
