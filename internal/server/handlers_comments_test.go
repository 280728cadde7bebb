package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/lebenslauf/internal/comments"
)

// fakeComments keeps comments in memory and fans inserts out to
// subscribers.
type fakeComments struct {
	mu        sync.Mutex
	items     []comments.Comment
	subs      []chan comments.Comment
	lastLimit int
}

func newFakeComments() *fakeComments {
	return &fakeComments{}
}

func (f *fakeComments) Insert(_ context.Context, c comments.Comment) (*comments.Comment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()

	f.mu.Lock()
	f.items = append(f.items, c)
	subs := append([]chan comments.Comment(nil), f.subs...)
	f.mu.Unlock()

	for _, ch := range subs {
		ch <- c
	}
	return &c, nil
}

func (f *fakeComments) List(_ context.Context, page string, limit int) ([]comments.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := []comments.Comment{}
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].Page == page {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeComments) Subscribe(ctx context.Context) (<-chan comments.Comment, error) {
	ch := make(chan comments.Comment, 4)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch, nil
}

func (f *fakeComments) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func TestComments_DisabledWithoutStore(t *testing.T) {
	env := newTestEnv(t)

	for _, w := range []*httptest.ResponseRecorder{
		env.do(t, http.MethodGet, "/api/comments?page=de", nil),
		env.do(t, http.MethodPost, "/api/comments", `{}`),
		env.do(t, http.MethodGet, "/api/comments/stream", nil),
	} {
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
}

func TestComments_CreateAndList(t *testing.T) {
	env := newTestEnv(t, withComments())

	w := env.do(t, http.MethodPost, "/api/comments", comments.Comment{Page: "/de/lebenslauf", Author: " Aziz ", Body: "Sehr gut"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[comments.Comment](t, w)
	assert.Equal(t, "Aziz", created.Author)
	assert.NotEqual(t, uuid.Nil, created.ID)

	env.do(t, http.MethodPost, "/api/comments", comments.Comment{Page: "/en/lebenslauf", Author: "Ann", Body: "Nice"})

	w = env.do(t, http.MethodGet, "/api/comments?page=/de/lebenslauf&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Comments []comments.Comment `json:"comments"`
		Count    int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Sehr gut", resp.Comments[0].Body)
	assert.Equal(t, comments.MaxLimit, env.comments.lastLimit)
}

func TestComments_Validation(t *testing.T) {
	env := newTestEnv(t, withComments())

	w := env.do(t, http.MethodPost, "/api/comments", comments.Comment{Page: "/de/lebenslauf", Author: "  ", Body: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/comments", comments.Comment{Page: "p", Author: "a", Body: strings.Repeat("x", 2001)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/comments", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/comments?page=p&limit=-1", nil).Code)
}

func TestComments_Stream(t *testing.T) {
	env := newTestEnv(t, withComments())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/comments/stream?page=/de/lebenslauf", nil).WithContext(ctx)
	w := newSyncRecorder()
	done := make(chan struct{})
	go func() {
		env.srv.Handler().ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return env.comments.subscribers() == 1 }, time.Second, 10*time.Millisecond)

	_, err := env.comments.Insert(ctx, comments.Comment{Page: "/en/lebenslauf", Author: "Ann", Body: "skip"})
	require.NoError(t, err)
	_, err = env.comments.Insert(ctx, comments.Comment{Page: "/de/lebenslauf", Author: "Aziz", Body: "Hallo"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(w.BodyString(), "Hallo")
	}, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	events := parseSSE(t, w.BodyString())
	require.Len(t, events, 1)
	assert.Equal(t, "comment", events[0].name)
	assert.NotContains(t, events[0].data, "skip")
}

// syncRecorder is a ResponseRecorder that can be read while the handler
// is still writing.
type syncRecorder struct {
	mu sync.Mutex
	*httptest.ResponseRecorder
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{ResponseRecorder: httptest.NewRecorder()}
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *syncRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResponseRecorder.WriteHeader(code)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResponseRecorder.Flush()
}

func (r *syncRecorder) BodyString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}
