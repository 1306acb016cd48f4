package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview/internal/interview"
	"ai-interview/internal/metrics"
	"ai-interview/internal/provider"
)

type stubProvider struct {
	resp   *provider.Response
	err    error
	delay  time.Duration
	prompt string
	format provider.Format
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, prompt string, format provider.Format) (*provider.Response, error) {
	s.prompt, s.format = prompt, format
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

func session() *interview.Session {
	return &interview.Session{
		ID:              "7b0e3f7e-5d7e-4a4e-9b59-0c7c6a9b8f10",
		SelectedField:   interview.FieldDeveloper,
		DesiredPosition: "Backend engineer",
		GeneralAnswers:  []interview.AnswerRecord{{QuestionText: "Introduce yourself.", CandidateAnswer: "I am Ada."}},
		SpecializedAnswers: []interview.AnswerRecord{
			{QuestionText: "Which position?", CandidateAnswer: "Backend engineer"},
		},
	}
}

func TestAssessSuccess(t *testing.T) {
	stub := &stubProvider{resp: &provider.Response{Text: "```json\n" + validJSON + "\n```"}}
	m := metrics.NewMetrics()
	s := NewSynthesizer(stub, time.Second, zerolog.Nop(), m)

	got := s.Assess(context.Background(), session())
	require.NotNil(t, got)
	assert.Equal(t, interview.AssessmentPass, got.Status)
	assert.Equal(t, provider.FormatJSON, stub.format)
	assert.Contains(t, stub.prompt, "[G1] Answer: I am Ada.")
	assert.Contains(t, stub.prompt, "[S1] Question: Which position?")
	assert.Contains(t, stub.prompt, "Backend engineer")
	assert.Equal(t, int64(0), m.GetSnapshot().AssessmentFallbacks)
	assert.Equal(t, int64(1), m.GetSnapshot().APICallsSuccessful)
}

func TestAssessFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubProvider
		status  interview.AssessmentStatus
		summary string
		raw     string
	}{
		{
			name:    "provider error",
			stub:    &stubProvider{err: errors.New("connection refused")},
			status:  interview.AssessmentEngineUnavailable,
			summary: SummaryUnavailable,
			raw:     "connection refused",
		},
		{
			name:    "blocked",
			stub:    &stubProvider{resp: &provider.Response{Blocked: true, BlockedReason: "self-harm"}},
			status:  interview.AssessmentBlocked,
			summary: SummaryBlocked + "self-harm",
			raw:     "Blocked: self-harm",
		},
		{
			name:    "empty",
			stub:    &stubProvider{resp: &provider.Response{Text: "  "}},
			status:  interview.AssessmentEmptyResponse,
			summary: SummaryEmpty,
			raw:     "  ",
		},
		{
			name:    "unparseable",
			stub:    &stubProvider{resp: &provider.Response{Text: "The candidate passed."}},
			status:  interview.AssessmentParseError,
			summary: SummaryParseError,
			raw:     "The candidate passed.",
		},
		{
			name:    "unknown verdict",
			stub:    &stubProvider{resp: &provider.Response{Text: `{"status":"Excellent"}`}},
			status:  interview.AssessmentParseError,
			summary: SummaryParseError,
			raw:     `{"status":"Excellent"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			got := NewSynthesizer(tt.stub, time.Second, zerolog.Nop(), m).Assess(context.Background(), session())
			require.NotNil(t, got)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.summary, got.OverallSummary)
			assert.Equal(t, tt.raw, got.RawProviderText)
			assert.NotNil(t, got.Strengths)
			assert.NotNil(t, got.SuggestedPositions)
			assert.Equal(t, int64(1), m.GetSnapshot().AssessmentFallbacks)
		})
	}
}

func TestAssessTimeout(t *testing.T) {
	stub := &stubProvider{resp: &provider.Response{Text: validJSON}, delay: time.Second}
	got := NewSynthesizer(stub, 30*time.Millisecond, zerolog.Nop(), nil).Assess(context.Background(), session())
	assert.Equal(t, interview.AssessmentEngineUnavailable, got.Status)
}

func TestAssessWithoutProvider(t *testing.T) {
	got := NewSynthesizer(nil, time.Second, zerolog.Nop(), nil).Assess(context.Background(), session())
	assert.Equal(t, interview.AssessmentEngineUnavailable, got.Status)
	assert.Equal(t, SummaryNotConfigured, got.OverallSummary)
}
