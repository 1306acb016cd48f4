package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview/internal/admin"
	"ai-interview/internal/assessment"
	"ai-interview/internal/config"
	"ai-interview/internal/feedback"
	"ai-interview/internal/interview"
	"ai-interview/internal/metrics"
	"ai-interview/internal/provider"
	"ai-interview/internal/repository"
	"ai-interview/internal/resolver"
	"ai-interview/internal/store/boltstore"
)

var seed = &config.SeedFile{
	QuestionSets: []config.SeedSet{
		{ID: "general", Name: "General", Kind: "general", Questions: []string{"Tell us about yourself.", "Why this company?"}},
		{ID: "dev", Name: "Developer", Kind: "developer", Questions: []string{"Which position?", "Describe a hard bug."}},
		{ID: "design", Name: "Designer", Kind: "designer", Questions: []string{"Which position?"}},
	},
	Defaults: config.SeedDefaults{General: "general", Developer: "dev", Designer: "design"},
}

type fixture struct {
	engine   *Engine
	admin    *admin.Service
	sessions *repository.Sessions
	metrics  *metrics.Metrics
}

type critic func(ctx context.Context, question, answer string) string

func (f critic) Critique(ctx context.Context, question, answer string) string { return f(ctx, question, answer) }

type assessor func(ctx context.Context, sess *interview.Session) *interview.OverallAssessment

func (f assessor) Assess(ctx context.Context, sess *interview.Session) *interview.OverallAssessment {
	return f(ctx, sess)
}

func fixedCritic(text string) critic {
	return func(context.Context, string, string) string { return text }
}

func passAssessor() assessor {
	return func(context.Context, *interview.Session) *interview.OverallAssessment {
		return interview.Fallback(interview.AssessmentPass, "solid", "{}")
	}
}

func newFixture(t *testing.T, c Critic, a Assessor, seeded bool) *fixture {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sets := repository.NewQuestionSets(s)
	settings := repository.NewSettings(s)
	sessions := repository.NewSessions(s)
	svc := admin.New(sets, settings, zerolog.Nop())
	if seeded {
		_, err := svc.Seed(context.Background(), seed)
		require.NoError(t, err)
	}

	m := metrics.NewMetrics()
	e := New(sessions, resolver.New(settings, sets), c, a, zerolog.Nop(), m)
	return &fixture{engine: e, admin: svc, sessions: sessions, metrics: m}
}

func candidate() interview.CandidateInfo {
	return interview.CandidateInfo{FullName: "  Jane Doe ", Email: "jane@example.com"}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), false)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	assert.Equal(t, interview.StatusInfoSubmitted, sess.Status)
	assert.Equal(t, interview.FieldNone, sess.SelectedField)
	assert.Equal(t, "Jane Doe", sess.Candidate.FullName)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, int64(1), f.metrics.GetSnapshot().SessionsCreated)

	_, err = f.engine.CreateSession(ctx, interview.CandidateInfo{FullName: "x", Email: "not-an-email"})
	require.ErrorIs(t, err, interview.ErrValidation)
}

func TestStartGeneralPhaseWithoutConfiguration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), false)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)

	_, err = f.engine.StartGeneralPhase(ctx, sess.ID)
	require.ErrorIs(t, err, interview.ErrConfigurationMissing)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusInfoSubmitted, got.Status)
}

func TestStartGeneralPhaseIsIdempotentWhileRunning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)

	first, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.PhaseGeneral, first.Phase)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.Total)

	_, err = f.engine.SubmitAnswer(ctx, sess.ID, first.ID, "I build things.")
	require.NoError(t, err)

	again, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Number)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.GeneralAnswers, 1)
}

func TestSnapshotSurvivesQuestionSetEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	q, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.admin.UpdateQuestionSet(ctx, "general", admin.QuestionSetUpdate{
		Questions: []admin.QuestionInput{{Text: "Replaced question"}},
	})
	require.NoError(t, err)

	res, err := f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "answer")
	require.NoError(t, err)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, "Why this company?", res.NextQuestion.Text)
}

func TestSubmitAnswerRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)

	_, err = f.engine.SubmitAnswer(ctx, sess.ID, "anything", "text")
	require.ErrorIs(t, err, interview.ErrInvalidState)

	q, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "   ")
	require.ErrorIs(t, err, interview.ErrBlankAnswer)
	require.ErrorIs(t, err, interview.ErrValidation)

	before, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	_, err = f.engine.SubmitAnswer(ctx, sess.ID, before.GeneralSnapshot[1].ID, "skipping ahead")
	require.ErrorIs(t, err, interview.ErrOutOfOrder)

	// отклоненный ответ не меняет сессию, ревизия та же
	after, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, after.GeneralAnswers)

	_, err = f.engine.SubmitAnswer(ctx, "8c0e2f7a-1111-4222-8333-944455556666", q.ID, "text")
	require.ErrorIs(t, err, interview.ErrNotFound)

	_, err = f.engine.SubmitAnswer(ctx, "not-a-uuid", q.ID, "text")
	require.ErrorIs(t, err, interview.ErrInvalidID)

	_, err = f.engine.SelectField(ctx, sess.ID, "developer")
	require.ErrorIs(t, err, interview.ErrInvalidState)
}

func TestSelectField(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	answerGeneral(t, f, sess.ID)

	_, err = f.engine.SelectField(ctx, sess.ID, "none")
	require.ErrorIs(t, err, interview.ErrInvalidField)
	_, err = f.engine.SelectField(ctx, sess.ID, "marketing")
	require.ErrorIs(t, err, interview.ErrInvalidField)

	q, err := f.engine.SelectField(ctx, sess.ID, " Designer ")
	require.NoError(t, err)
	assert.Equal(t, interview.PhaseSpecialized, q.Phase)
	assert.Equal(t, 1, q.Total)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.FieldDesigner, got.SelectedField)
	assert.Equal(t, "design", got.SpecializedQuestionSetRef)
	assert.Equal(t, interview.StatusSpecializedInProgress, got.Status)

	_, err = f.engine.SelectField(ctx, sess.ID, "developer")
	require.ErrorIs(t, err, interview.ErrInvalidState)
}

func answerGeneral(t *testing.T, f *fixture, id string) {
	t.Helper()
	ctx := context.Background()
	q, err := f.engine.StartGeneralPhase(ctx, id)
	require.NoError(t, err)
	for q != nil {
		res, err := f.engine.SubmitAnswer(ctx, id, q.ID, "general answer to "+q.Text)
		require.NoError(t, err)
		q = res.NextQuestion
		if q == nil {
			assert.Equal(t, interview.StatusAwaitingSpecialization, res.Status)
			assert.Equal(t, interview.SelectableFields(), res.SelectableFields)
		}
	}

	got, err := f.engine.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, interview.FieldNone, got.SelectedField)
	assert.Empty(t, got.SpecializedSnapshot)
	assert.Empty(t, got.SpecializedAnswers)
	require.NoError(t, got.CheckInvariants())
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()
	var assessed int32
	a := assessor(func(_ context.Context, sess *interview.Session) *interview.OverallAssessment {
		atomic.AddInt32(&assessed, 1)
		assert.Len(t, sess.SpecializedAnswers, 2)
		assert.Equal(t, "Backend engineer", sess.DesiredPosition)
		return interview.Fallback(interview.AssessmentNeedsReview, "borderline", "raw")
	})
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, fixedCritic("fine"), a, true)
	f.engine.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	answerGeneral(t, f, sess.ID)

	q, err := f.engine.SelectField(ctx, sess.ID, "developer")
	require.NoError(t, err)
	res, err := f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "Backend engineer")
	require.NoError(t, err)
	require.NotNil(t, res.NextQuestion)

	res, err = f.engine.SubmitAnswer(ctx, sess.ID, res.NextQuestion.ID, "A race in the cache layer.")
	require.NoError(t, err)
	assert.Equal(t, interview.StatusCompleted, res.Status)
	require.NotNil(t, res.Assessment)
	assert.Equal(t, interview.AssessmentNeedsReview, res.Assessment.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&assessed))

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.After(got.StartTime))
	assert.Equal(t, "fine", got.SpecializedAnswers[1].AIFeedback)
	require.NoError(t, got.CheckInvariants())

	_, err = f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "late")
	require.ErrorIs(t, err, interview.ErrInvalidState)
	_, err = f.engine.AbandonSession(ctx, sess.ID)
	require.ErrorIs(t, err, interview.ErrInvalidState)

	snap := f.metrics.GetSnapshot()
	assert.Equal(t, int64(1), snap.SessionsCompleted)
	assert.Equal(t, int64(4), snap.AnswersAccepted)
}

func TestRestartAfterCompletionReinitializes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	answerGeneral(t, f, sess.ID)
	q, err := f.engine.SelectField(ctx, sess.ID, "designer")
	require.NoError(t, err)
	_, err = f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "Product designer")
	require.NoError(t, err)

	first, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusGeneralInProgress, got.Status)
	assert.Equal(t, interview.FieldNone, got.SelectedField)
	assert.Empty(t, got.GeneralAnswers)
	assert.Empty(t, got.SpecializedAnswers)
	assert.Empty(t, got.DesiredPosition)
	assert.Nil(t, got.OverallAssessment)
	assert.Nil(t, got.EndTime)
	assert.False(t, got.IsCompleted)
}

func TestAbandonSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	_, err = f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)

	got, err := f.engine.AbandonSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusAbandoned, got.Status)
	assert.NotNil(t, got.EndTime)
	assert.Nil(t, got.OverallAssessment)

	_, err = f.engine.AbandonSession(ctx, sess.ID)
	require.ErrorIs(t, err, interview.ErrInvalidState)
	assert.Equal(t, int64(1), f.metrics.GetSnapshot().SessionsAbandoned)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := f.engine.CreateSession(ctx, candidate())
		require.NoError(t, err)
		ids = append(ids, sess.ID)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := f.engine.AbandonSession(ctx, ids[0])
	require.NoError(t, err)

	all, err := f.engine.ListSessions(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)

	abandoned, err := f.engine.ListSessions(ctx, ListFilter{Status: "abandoned"})
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	assert.Equal(t, ids[0], abandoned[0].ID)

	page, err := f.engine.ListSessions(ctx, ListFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	for _, bad := range []ListFilter{{Limit: 101}, {Limit: -1}, {Skip: -1}, {Status: "done"}, {Verdict: "maybe"}} {
		_, err := f.engine.ListSessions(ctx, bad)
		assert.ErrorIs(t, err, interview.ErrValidation, "%+v", bad)
	}

	_, err = f.engine.ListSessions(ctx, ListFilter{Verdict: "needs review"})
	require.NoError(t, err)
}

func TestConcurrentSubmitsForSamePosition(t *testing.T) {
	ctx := context.Background()
	const submitters = 4

	var arrived sync.WaitGroup
	arrived.Add(submitters)
	release := make(chan struct{})
	c := critic(func(_ context.Context, _, answer string) string {
		arrived.Done()
		<-release
		return "feedback for " + answer
	})
	f := newFixture(t, c, passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	q, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)

	errs := make([]error, submitters)
	var done sync.WaitGroup
	for i := 0; i < submitters; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			_, errs[i] = f.engine.SubmitAnswer(ctx, sess.ID, q.ID, string(rune('A'+i)))
		}(i)
	}
	arrived.Wait()
	close(release)
	done.Wait()

	var accepted int
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, interview.ErrOutOfOrder)
	}
	assert.Equal(t, 1, accepted)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.GeneralAnswers, 1)
	a := got.GeneralAnswers[0]
	assert.Equal(t, "feedback for "+a.CandidateAnswer, a.AIFeedback)
}

// scriptedProvider отвечает на промпты отзыва текстом, а на промпт оценки
// JSON вердиктом в markdown ограждении
type scriptedProvider struct {
	calls int32
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(_ context.Context, _ string, format provider.Format) (*provider.Response, error) {
	atomic.AddInt32(&p.calls, 1)
	if format == provider.FormatJSON {
		return &provider.Response{Text: "```json\n" + `{"overall_summary":"Strong candidate","status":"pass",
"strengths":[{"point":"clear","evidence":"[G1]"}],"weaknesses":[],"suitability_for_field":"good",
"suggested_positions":["Backend engineer"],"suggestions_if_not_pass":""}` + "\n```"}, nil
	}
	return &provider.Response{Text: "  Concise and relevant.  "}, nil
}

func TestEndToEndWithProvider(t *testing.T) {
	ctx := context.Background()
	p := &scriptedProvider{}
	m := metrics.NewMetrics()
	fb := feedback.New(p, time.Second, zerolog.Nop(), m)
	syn := assessment.NewSynthesizer(p, time.Second, zerolog.Nop(), m)
	f := newFixture(t, fb, syn, true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	answerGeneral(t, f, sess.ID)

	q, err := f.engine.SelectField(ctx, sess.ID, "developer")
	require.NoError(t, err)
	for q != nil {
		res, err := f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "answer to "+q.Text)
		require.NoError(t, err)
		assert.Equal(t, "Concise and relevant.", res.Feedback)
		q = res.NextQuestion
		if q == nil {
			require.NotNil(t, res.Assessment)
			assert.Equal(t, interview.AssessmentPass, res.Assessment.Status)
			assert.Equal(t, []string{"Backend engineer"}, res.Assessment.SuggestedPositions)
		}
	}

	// четыре ответа и одна оценка
	assert.Equal(t, int32(5), atomic.LoadInt32(&p.calls))
	assert.Equal(t, int64(5), m.GetSnapshot().APICallsSuccessful)

	done, err := f.engine.ListSessions(ctx, ListFilter{Status: "completed", Verdict: "Pass"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "answer to Which position?", done[0].DesiredPosition)
}

// brokenProvider падает на отзывах и зависает на оценке до истечения таймаута
type brokenProvider struct{}

func (brokenProvider) Name() string { return "broken" }

func (brokenProvider) Generate(ctx context.Context, _ string, format provider.Format) (*provider.Response, error) {
	if format == provider.FormatText {
		return nil, errors.New("connection refused")
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCompletesWhenProviderFails(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMetrics()
	fb := feedback.New(brokenProvider{}, 50*time.Millisecond, zerolog.Nop(), m)
	syn := assessment.NewSynthesizer(brokenProvider{}, 50*time.Millisecond, zerolog.Nop(), m)
	f := newFixture(t, fb, syn, true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)
	answerGeneral(t, f, sess.ID)

	q, err := f.engine.SelectField(ctx, sess.ID, "designer")
	require.NoError(t, err)
	res, err := f.engine.SubmitAnswer(ctx, sess.ID, q.ID, "Product designer")
	require.NoError(t, err)
	assert.Nil(t, res.NextQuestion)
	assert.Equal(t, interview.StatusCompleted, res.Status)
	assert.Equal(t, feedback.UnavailableNotice, res.Feedback)

	got, err := f.engine.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusCompleted, got.Status)
	assert.True(t, got.IsCompleted)
	assert.NotNil(t, got.EndTime)
	require.NotNil(t, got.OverallAssessment)
	assert.Equal(t, interview.AssessmentEngineUnavailable, got.OverallAssessment.Status)
	for _, a := range append(got.GeneralAnswers, got.SpecializedAnswers...) {
		assert.Equal(t, feedback.UnavailableNotice, a.AIFeedback)
	}
	require.NoError(t, got.CheckInvariants())

	snap := m.GetSnapshot()
	assert.Equal(t, int64(3), snap.FeedbackFallbacks)
	assert.Equal(t, int64(1), snap.AssessmentFallbacks)
}

func TestCurrentQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedCritic("ok"), passAssessor(), true)

	sess, err := f.engine.CreateSession(ctx, candidate())
	require.NoError(t, err)

	q, err := f.engine.CurrentQuestion(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, q)

	started, err := f.engine.StartGeneralPhase(ctx, sess.ID)
	require.NoError(t, err)
	q, err = f.engine.CurrentQuestion(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, started, q)
}
