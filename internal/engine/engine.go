// Package engine ведет жизненный цикл сессии интервью: переходы между фазами,
// прием ответов с отзывами AI и итоговую оценку.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ai-interview/internal/interview"
	"ai-interview/internal/metrics"
	"ai-interview/internal/repository"
	"ai-interview/internal/resolver"
)

// SessionStore хранит сессии с условной записью
type SessionStore interface {
	Create(ctx context.Context, sess *interview.Session) error
	Get(ctx context.Context, id string) (*interview.Session, error)
	Save(ctx context.Context, sess *interview.Session) error
	List(ctx context.Context, f repository.SessionFilter) ([]*interview.Session, error)
}

// Resolver выдает снимок вопросов для вида фазы
type Resolver interface {
	Resolve(ctx context.Context, kind interview.Kind) (*resolver.Resolved, error)
}

// Critic дает отзыв на ответ и никогда не падает
type Critic interface {
	Critique(ctx context.Context, question, answer string) string
}

// Assessor дает итоговую оценку и никогда не возвращает nil
type Assessor interface {
	Assess(ctx context.Context, sess *interview.Session) *interview.OverallAssessment
}

// DefaultMaxAttempts ограничивает повторы записи после проигранной условной записи
const DefaultMaxAttempts = 5

// Engine ведет сессии интервью по жизненному циклу и сохраняет каждый шаг условной записью
type Engine struct {
	sessions    SessionStore
	resolver    Resolver
	critic      Critic
	assessor    Assessor
	log         zerolog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	maxAttempts int
}

// Option настраивает Engine
type Option func(*Engine)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMaxAttempts меняет число попыток условной записи
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// New создает движок. По умолчанию время берется из time.Now, попыток записи DefaultMaxAttempts
func New(sessions SessionStore, res Resolver, critic Critic, assessor Assessor,
	log zerolog.Logger, m *metrics.Metrics, opts ...Option) *Engine {
	e := &Engine{
		sessions:    sessions,
		resolver:    res,
		critic:      critic,
		assessor:    assessor,
		log:         log.With().Str("component", "engine").Logger(),
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QuestionView - вопрос в том виде, в каком его видит кандидат
type QuestionView struct {
	Phase  interview.Phase `json:"phase"`
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Number int             `json:"number"` // с 1 внутри фазы
	Total  int             `json:"total"`
}

// AnswerResult описывает сессию после принятого ответа
type AnswerResult struct {
	Feedback string           `json:"ai_feedback"`
	Status   interview.Status `json:"lifecycle_status"`
	// NextQuestion задан, пока в фазе есть вопросы
	NextQuestion *QuestionView `json:"next_question,omitempty"`
	// SelectableFields задан после окончания общей фазы
	SelectableFields []interview.Field `json:"selectable_fields,omitempty"`
	// Assessment задан после завершения сессии
	Assessment *interview.OverallAssessment `json:"overall_assessment,omitempty"`
}

func viewOf(sess *interview.Session, phase interview.Phase) *QuestionView {
	q, i, ok := sess.PendingQuestion(phase)
	if !ok {
		return nil
	}
	return &QuestionView{
		Phase:  phase,
		ID:     q.ID,
		Text:   q.Text,
		Number: i + 1,
		Total:  len(sess.Snapshot(phase)),
	}
}
