package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"ai-interview/internal/interview"
	"ai-interview/internal/store"
)

// Sessions читает и пишет сессии интервью
type Sessions struct {
	coll store.Collection
}

// NewSessions создает репозиторий сессий
func NewSessions(s store.Store) *Sessions {
	return &Sessions{coll: s.Collection(store.Sessions)}
}

// Create сохраняет новую сессию и проставляет ревизию
func (r *Sessions) Create(ctx context.Context, sess *interview.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.coll.Insert(ctx, sess.ID, data); err != nil {
		return mapStoreError(err, "session", sess.ID)
	}
	sess.Revision = 1
	return nil
}

// Get загружает сессию. id не в формате UUID отклоняется без запроса
func (r *Sessions) Get(ctx context.Context, id string) (*interview.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: session id %q", interview.ErrInvalidID, id)
	}
	data, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "session", id)
	}
	return decodeSession(id, data)
}

// Save записывает сессию, если ее не меняли после чтения.
// При успехе увеличивает sess.Revision, при проигранной гонке ErrConflict
func (r *Sessions) Save(ctx context.Context, sess *interview.Session) error {
	if err := save(ctx, r.coll, sess.ID, sess.Revision, sess, "session"); err != nil {
		return err
	}
	sess.Revision++
	return nil
}

// SessionFilter сужает список сессий, нулевые значения не фильтруют
type SessionFilter struct {
	Status  interview.Status
	Verdict interview.AssessmentStatus
	Skip    int
	Limit   int
}

// List возвращает сессии, новые первыми
func (r *Sessions) List(ctx context.Context, f SessionFilter) ([]*interview.Session, error) {
	q := store.Query{
		Equals:     map[string]any{},
		SortBy:     "created_at",
		Descending: true,
		Skip:       f.Skip,
		Limit:      f.Limit,
	}
	if f.Status != "" {
		q.Equals["lifecycle_status"] = string(f.Status)
	}
	if f.Verdict != "" {
		q.Equals["overall_assessment.status"] = string(f.Verdict)
	}

	docs, err := r.coll.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]*interview.Session, 0, len(docs))
	for _, data := range docs {
		sess, err := decodeSession("", data)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

func decodeSession(id string, data []byte) (*interview.Session, error) {
	var sess interview.Session
	if err := decode(store.Sessions, id, data, &sess); err != nil {
		return nil, err
	}
	if err := sess.CheckInvariants(); err != nil {
		return nil, err
	}
	return &sess, nil
}
