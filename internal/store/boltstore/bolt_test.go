package boltstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-interview/internal/store"
	"ai-interview/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(filepath.Join(t.TempDir(), "data", "interview.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Collection(store.Settings).Insert(context.Background(), "k", []byte(`{"v":1}`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Collection(store.Settings).Get(context.Background(), "k")
	require.NoError(t, err)
}
