package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-interview/internal/store"
	"ai-interview/internal/store/storetest"
)

// Для запуска нужен MONGODB_TEST_URL с живым сервером
func TestConformance(t *testing.T) {
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		name := fmt.Sprintf("interview_test_%d", time.Now().UnixNano())
		s, err := Open(ctx, url, name)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.Drop(ctx)
			s.Close()
		})
		return s
	})
}
