// Package feedback получает короткий отзыв AI на каждый ответ.
package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-interview/internal/metrics"
	"ai-interview/internal/prompts"
	"ai-interview/internal/provider"
)

// Тексты, которые сохраняются вместо отзыва
const (
	UnavailableNotice  = "AI feedback is currently unavailable."
	EmptyNotice        = "AI could not produce feedback for this answer."
	BlockedPrefix      = "AI feedback blocked: "
	DefaultBlockReason = "safety reasons"
)

// Pipeline превращает вопрос и ответ в отзыв
type Pipeline struct {
	provider provider.Provider
	timeout  time.Duration
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// New создает pipeline. При p == nil каждый отзыв - UnavailableNotice
func New(p provider.Provider, timeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		provider: p,
		timeout:  timeout,
		log:      log.With().Str("component", "feedback").Logger(),
		metrics:  m,
	}
}

// Critique не возвращает ошибок, любая проблема провайдера дает текст-заглушку.
// Вызов не отменяется вместе с ctx и ограничен только таймаутом
func (p *Pipeline) Critique(ctx context.Context, question, answer string) string {
	if p.provider == nil {
		p.metrics.IncrementFeedbackFallbacks()
		return UnavailableNotice
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	resp, err := p.provider.Generate(callCtx, prompts.FeedbackPrompt(question, answer), provider.FormatText)
	if err != nil {
		p.metrics.IncrementAPICall(false)
		p.metrics.IncrementFeedbackFallbacks()
		p.log.Warn().Err(err).Str("provider", p.provider.Name()).Msg("feedback unavailable")
		return UnavailableNotice
	}

	if resp.Blocked {
		p.metrics.IncrementAPICall(false)
		p.metrics.IncrementFeedbackFallbacks()
		reason := strings.TrimSpace(resp.BlockedReason)
		if reason == "" {
			reason = DefaultBlockReason
		}
		p.log.Warn().Str("reason", reason).Msg("feedback blocked")
		return BlockedPrefix + reason
	}

	p.metrics.IncrementAPICall(true)
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		p.metrics.IncrementFeedbackFallbacks()
		return EmptyNotice
	}
	return text
}
