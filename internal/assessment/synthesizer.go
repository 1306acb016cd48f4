package assessment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-interview/internal/interview"
	"ai-interview/internal/metrics"
	"ai-interview/internal/prompts"
	"ai-interview/internal/provider"
)

// Тексты резервных оценок
const (
	SummaryNotConfigured = "AI assessment engine is not configured."
	SummaryUnavailable   = "AI assessment engine is unavailable."
	SummaryBlocked       = "AI assessment was blocked: "
	SummaryEmpty         = "AI returned no content for the final assessment."
	SummaryParseError    = "AI assessment could not be parsed."
)

// Synthesizer запрашивает у провайдера итоговую оценку сессии
type Synthesizer struct {
	provider provider.Provider
	timeout  time.Duration
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// NewSynthesizer создает синтезатор оценки. При p == nil оценка всегда engine unavailable
func NewSynthesizer(p provider.Provider, timeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *Synthesizer {
	return &Synthesizer{
		provider: p,
		timeout:  timeout,
		log:      log.With().Str("component", "assessment").Logger(),
		metrics:  m,
	}
}

// Assess всегда возвращает оценку. Без вердикта в ней диагностический статус
// и полученный сырой текст
func (s *Synthesizer) Assess(ctx context.Context, sess *interview.Session) *interview.OverallAssessment {
	log := s.log.With().Str("session_id", sess.ID).Logger()

	if s.provider == nil {
		s.metrics.IncrementAssessmentFallbacks()
		return interview.Fallback(interview.AssessmentEngineUnavailable, SummaryNotConfigured, "")
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	prompt := prompts.AssessmentPrompt(sess.SelectedField, sess.DesiredPosition, prompts.Transcript(sess))
	resp, err := s.provider.Generate(callCtx, prompt, provider.FormatJSON)
	if err != nil {
		s.metrics.IncrementAPICall(false)
		s.metrics.IncrementAssessmentFallbacks()
		log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("assessment engine unavailable")
		return interview.Fallback(interview.AssessmentEngineUnavailable, SummaryUnavailable, err.Error())
	}

	if resp.Blocked {
		s.metrics.IncrementAPICall(false)
		s.metrics.IncrementAssessmentFallbacks()
		reason := strings.TrimSpace(resp.BlockedReason)
		if reason == "" {
			reason = "safety reasons"
		}
		log.Warn().Str("reason", reason).Msg("assessment blocked")
		return interview.Fallback(interview.AssessmentBlocked, SummaryBlocked+reason, "Blocked: "+reason)
	}

	s.metrics.IncrementAPICall(true)
	if strings.TrimSpace(resp.Text) == "" {
		s.metrics.IncrementAssessmentFallbacks()
		log.Warn().Msg("assessment response was empty")
		return interview.Fallback(interview.AssessmentEmptyResponse, SummaryEmpty, resp.Text)
	}

	result, err := Parse(resp.Text)
	if err != nil {
		s.metrics.IncrementAssessmentFallbacks()
		log.Warn().Err(err).Msg("assessment response could not be parsed")
		return interview.Fallback(interview.AssessmentParseError, SummaryParseError, resp.Text)
	}

	log.Info().Str("status", string(result.Status)).Msg("assessment synthesized")
	return result
}
