package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview/internal/interview"
	"ai-interview/internal/store"
	"ai-interview/internal/store/boltstore"
)

func openStore(t *testing.T) store.Store {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newSession(t *testing.T, created time.Time) *interview.Session {
	t.Helper()
	return interview.NewSession(interview.CandidateInfo{FullName: "Ada", Email: "ada@example.com"}, created)
}

func TestSessionsCreateGetSave(t *testing.T) {
	ctx := context.Background()
	repo := NewSessions(openStore(t))

	sess := newSession(t, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, sess))
	assert.Equal(t, int64(1), sess.Revision)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, interview.StatusInfoSubmitted, got.Status)
	assert.Equal(t, "Ada", got.Candidate.FullName)

	got.DesiredPosition = "backend"
	require.NoError(t, repo.Save(ctx, got))
	assert.Equal(t, int64(2), got.Revision)

	// устаревшая копия проиграла
	sess.DesiredPosition = "frontend"
	err = repo.Save(ctx, sess)
	require.ErrorIs(t, err, ErrConflict)

	again, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend", again.DesiredPosition)
}

func TestSessionsGetErrors(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	repo := NewSessions(s)

	_, err := repo.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, interview.ErrInvalidID)
	require.ErrorIs(t, err, interview.ErrValidation)

	_, err = repo.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, interview.ErrNotFound)

	id := uuid.NewString()
	require.NoError(t, s.Collection(store.Sessions).Insert(ctx, id,
		[]byte(`{"id":"`+id+`","lifecycle_status":"completed","selected_field":"developer","is_completed":true}`)))
	_, err = repo.Get(ctx, id)
	require.ErrorIs(t, err, interview.ErrCorruptDocument)

	id = uuid.NewString()
	require.NoError(t, s.Collection(store.Sessions).Insert(ctx, id, []byte(`{"general_answers":"nope"}`)))
	_, err = repo.Get(ctx, id)
	require.ErrorIs(t, err, interview.ErrCorruptDocument)
}

func TestSessionsSaveMissing(t *testing.T) {
	repo := NewSessions(openStore(t))
	sess := newSession(t, time.Now())
	sess.Revision = 1
	err := repo.Save(context.Background(), sess)
	require.ErrorIs(t, err, interview.ErrNotFound)
}

func TestSessionsList(t *testing.T) {
	ctx := context.Background()
	repo := NewSessions(openStore(t))
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 4; i++ {
		sess := newSession(t, base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			end := sess.CreatedAt
			sess.Status = interview.StatusCompleted
			sess.SelectedField = interview.FieldDeveloper
			sess.IsCompleted = true
			sess.EndTime = &end
			status := interview.AssessmentPass
			if i == 2 {
				status = interview.AssessmentFail
			}
			sess.OverallAssessment = interview.Fallback(status, "summary", "")
		}
		require.NoError(t, repo.Create(ctx, sess))
		ids = append(ids, sess.ID)
	}

	all, err := repo.List(ctx, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID)
	assert.Equal(t, ids[0], all[3].ID)

	completed, err := repo.List(ctx, SessionFilter{Status: interview.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, ids[2], completed[0].ID)

	passed, err := repo.List(ctx, SessionFilter{Verdict: interview.AssessmentPass})
	require.NoError(t, err)
	require.Len(t, passed, 1)
	assert.Equal(t, ids[0], passed[0].ID)

	page, err := repo.List(ctx, SessionFilter{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)
}

func TestQuestionSets(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionSets(openStore(t))

	qs := &interview.QuestionSet{
		ID:        "general-v1",
		Name:      "General",
		Kind:      interview.KindGeneral,
		Questions: interview.NewQuestions("Tell me about yourself."),
	}
	require.NoError(t, repo.Create(ctx, qs))
	require.ErrorIs(t, repo.Create(ctx, qs), interview.ErrDuplicateID)

	got, err := repo.Get(ctx, "general-v1")
	require.NoError(t, err)
	assert.Equal(t, qs.Questions, got.Questions)

	got.Name = "General v1"
	require.NoError(t, repo.Save(ctx, got))

	dev := &interview.QuestionSet{ID: "dev", Name: "Dev", Kind: interview.KindDeveloper}
	require.NoError(t, repo.Create(ctx, dev))

	general, err := repo.List(ctx, interview.KindGeneral)
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.Equal(t, "General v1", general[0].Name)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, "dev"))
	require.ErrorIs(t, repo.Delete(ctx, "dev"), interview.ErrNotFound)
	_, err = repo.Get(ctx, "dev")
	require.ErrorIs(t, err, interview.ErrNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	repo := NewSettings(openStore(t))

	_, err := repo.Defaults(ctx)
	require.ErrorIs(t, err, interview.ErrNotFound)

	cfg := &interview.DefaultConfig{}
	require.NoError(t, repo.CreateDefaults(ctx, cfg))
	require.ErrorIs(t, repo.CreateDefaults(ctx, &interview.DefaultConfig{}), interview.ErrDuplicateID)

	setID := "general-v1"
	cfg.SetSlot(interview.KindGeneral, &setID)
	require.NoError(t, repo.SaveDefaults(ctx, cfg))

	got, err := repo.Defaults(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.GeneralSetID)
	assert.Equal(t, setID, *got.GeneralSetID)
	assert.Nil(t, got.DeveloperSetID)
	assert.Equal(t, int64(2), got.Revision)
}
