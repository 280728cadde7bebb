//go:build integration

package comments

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/lebenslauf/internal/logging"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, url))

	s, err := Connect(ctx, url, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_InsertListSubscribe(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page := "/test/" + time.Now().Format(time.RFC3339Nano)
	sub, err := s.Subscribe(ctx)
	require.NoError(t, err)

	inserted, err := s.Insert(ctx, Comment{Page: page, Author: "Aziz", Body: "Салом!"})
	require.NoError(t, err)
	assert.False(t, inserted.CreatedAt.IsZero())

	select {
	case got := <-sub:
		assert.Equal(t, inserted.ID, got.ID)
		assert.Equal(t, "Салом!", got.Body)
	case <-ctx.Done():
		t.Fatal("no notification received")
	}

	list, err := s.List(ctx, page, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inserted.ID, list[0].ID)
}

func TestStore_InsertRejectsInvalid(t *testing.T) {
	s := setupStore(t)
	_, err := s.Insert(context.Background(), Comment{Page: "/", Author: "", Body: "x"})
	assert.Error(t, err)
}

func TestStore_SubscribersShareOneConnection(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subs := make([]<-chan Comment, runtime.NumCPU()+4)
	for i := range subs {
		sub, err := s.Subscribe(ctx)
		require.NoError(t, err)
		subs[i] = sub
	}
	assert.Equal(t, int32(1), s.pool.Stat().AcquiredConns())

	page := "/test/" + time.Now().Format(time.RFC3339Nano)
	inserted, err := s.Insert(ctx, Comment{Page: page, Author: "Aziz", Body: "hi"})
	require.NoError(t, err)

	for _, sub := range subs {
		select {
		case got := <-sub:
			assert.Equal(t, inserted.ID, got.ID)
		case <-ctx.Done():
			t.Fatal("no notification received")
		}
	}
}
