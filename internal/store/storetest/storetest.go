// Package storetest - общий набор тестов для всех хранилищ.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview/internal/store"
)

// Factory открывает новое пустое хранилище для подтеста
type Factory func(t *testing.T) store.Store

// Run проверяет контракт store.Collection
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertGet", func(t *testing.T) { testInsertGet(t, newStore(t)) })
	t.Run("DuplicateInsert", func(t *testing.T) { testDuplicateInsert(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("UpdateFields", func(t *testing.T) { testUpdateFields(t, newStore(t)) })
	t.Run("ConditionalUpdate", func(t *testing.T) { testConditionalUpdate(t, newStore(t)) })
	t.Run("ReservedFields", func(t *testing.T) { testReservedFields(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("FindFilterSort", func(t *testing.T) { testFindFilterSort(t, newStore(t)) })
	t.Run("CollectionsAreSeparate", func(t *testing.T) { testCollectionsAreSeparate(t, newStore(t)) })
	t.Run("RacingConditionalUpdates", func(t *testing.T) { testRacingConditionalUpdates(t, newStore(t)) })
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func testInsertGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)

	require.NoError(t, c.Insert(ctx, "a", []byte(`{"name":"alpha","nested":{"n":2}}`)))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	doc := decode(t, got)
	assert.Equal(t, "a", doc["id"])
	assert.Equal(t, float64(1), doc["revision"])
	assert.Equal(t, "alpha", doc["name"])
	assert.Equal(t, map[string]any{"n": float64(2)}, doc["nested"])
}

func testDuplicateInsert(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.QuestionSets)

	require.NoError(t, c.Insert(ctx, "set", []byte(`{"name":"one"}`)))
	err := c.Insert(ctx, "set", []byte(`{"name":"two"}`))
	require.ErrorIs(t, err, store.ErrDuplicate)

	got, err := c.Get(ctx, "set")
	require.NoError(t, err)
	assert.Equal(t, "one", decode(t, got)["name"])
}

func testGetMissing(t *testing.T, s store.Store) {
	_, err := s.Collection(store.Sessions).Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdateFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)
	require.NoError(t, c.Insert(ctx, "a", []byte(`{"name":"alpha","count":1}`)))

	n, err := c.UpdateFields(ctx, "a", map[string]any{
		"count": 2,
		"items": []string{"x", "y"},
	}, store.AnyRevision)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	doc := decode(t, got)
	assert.Equal(t, "alpha", doc["name"])
	assert.Equal(t, float64(2), doc["count"])
	assert.Equal(t, []any{"x", "y"}, doc["items"])
	assert.Equal(t, float64(2), doc["revision"])

	n, err = c.UpdateFields(ctx, "missing", map[string]any{"count": 3}, store.AnyRevision)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func testConditionalUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)
	require.NoError(t, c.Insert(ctx, "a", []byte(`{"step":0}`)))

	n, err := c.UpdateFields(ctx, "a", map[string]any{"step": 1}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// ревизия теперь 2, запись с ревизией 1 должна проиграть
	n, err = c.UpdateFields(ctx, "a", map[string]any{"step": 99}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	rev, err := store.Revision(got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
	assert.Equal(t, float64(1), decode(t, got)["step"])
}

func testReservedFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)
	require.NoError(t, c.Insert(ctx, "a", []byte(`{}`)))

	_, err := c.UpdateFields(ctx, "a", map[string]any{"revision": 10}, store.AnyRevision)
	require.ErrorIs(t, err, store.ErrReservedField)
	_, err = c.UpdateFields(ctx, "a", map[string]any{"id": "b"}, store.AnyRevision)
	require.ErrorIs(t, err, store.ErrReservedField)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.QuestionSets)
	require.NoError(t, c.Insert(ctx, "a", []byte(`{}`)))

	n, err := c.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = c.Get(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testFindFilterSort(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)

	docs := []struct {
		id, status, verdict, created string
	}{
		{"s1", "completed", "Pass", "2024-05-01T10:00:00Z"},
		{"s2", "completed", "Fail", "2024-05-01T10:00:00.5Z"},
		{"s3", "abandoned", "", "2024-05-02T09:00:00Z"},
		{"s4", "completed", "Pass", "2024-05-03T08:00:00.123Z"},
	}
	for _, d := range docs {
		body := fmt.Sprintf(`{"lifecycle_status":%q,"created_at":%q,"overall_assessment":{"status":%q}}`,
			d.status, d.created, d.verdict)
		require.NoError(t, c.Insert(ctx, d.id, []byte(body)))
	}

	ids := func(found [][]byte) []string {
		var out []string
		for _, f := range found {
			out = append(out, decode(t, f)["id"].(string))
		}
		return out
	}

	found, err := c.Find(ctx, store.Query{SortBy: "created_at", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"s4", "s3", "s2", "s1"}, ids(found))

	found, err = c.Find(ctx, store.Query{
		Equals:     map[string]any{"lifecycle_status": "completed"},
		SortBy:     "created_at",
		Descending: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s4", "s2", "s1"}, ids(found))

	found, err = c.Find(ctx, store.Query{
		Equals: map[string]any{"overall_assessment.status": "Pass"},
		SortBy: "created_at",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s4"}, ids(found))

	found, err = c.Find(ctx, store.Query{SortBy: "created_at", Descending: true, Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s2"}, ids(found))

	found, err = c.Find(ctx, store.Query{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testCollectionsAreSeparate(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Collection(store.Sessions).Insert(ctx, "x", []byte(`{"k":"session"}`)))
	require.NoError(t, s.Collection(store.Settings).Insert(ctx, "x", []byte(`{"k":"setting"}`)))

	got, err := s.Collection(store.Settings).Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "setting", decode(t, got)["k"])

	found, err := s.Collection(store.QuestionSets).Find(ctx, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testRacingConditionalUpdates(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := s.Collection(store.Sessions)
	require.NoError(t, c.Insert(ctx, "race", []byte(`{"winner":""}`)))

	const writers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := c.UpdateFields(ctx, "race", map[string]any{"winner": fmt.Sprint(i)}, 1)
			assert.NoError(t, err)
			mu.Lock()
			wins += int(n)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	got, err := c.Get(ctx, "race")
	require.NoError(t, err)
	rev, err := store.Revision(got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}
