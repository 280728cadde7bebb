package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/lebenslauf/internal/comments"
)

const keepAliveInterval = 25 * time.Second

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	if s.comments == nil {
		s.fail(w, r, errCommentsDisabled)
		return
	}
	page := trimmedQuery(r, "page")
	if page == "" {
		s.fail(w, r, &RequestError{Message: "page is required"})
		return
	}
	limit := comments.DefaultLimit
	if v := trimmedQuery(r, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.fail(w, r, &RequestError{Message: "invalid limit", Cause: err})
			return
		}
		limit = min(n, comments.MaxLimit)
	}

	list, err := s.comments.List(r.Context(), page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"comments": list, "count": len(list)})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	if s.comments == nil {
		s.fail(w, r, errCommentsDisabled)
		return
	}
	var c comments.Comment
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	stored, err := s.comments.Insert(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, stored)
}

// handleCommentStream pushes new comments as "comment" events until the
// client goes away. page narrows the stream to one page.
func (s *Server) handleCommentStream(w http.ResponseWriter, r *http.Request) {
	if s.comments == nil {
		s.fail(w, r, errCommentsDisabled)
		return
	}
	ctx := r.Context()
	page := trimmedQuery(r, "page")

	feed, err := s.comments.Subscribe(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sse.WriteComment("ping"); err != nil {
				return
			}
		case c, ok := <-feed:
			if !ok {
				sse.WriteError(http.StatusServiceUnavailable, "comment feed closed")
				return
			}
			if page != "" && c.Page != page {
				continue
			}
			if err := sse.WriteEvent("comment", c); err != nil {
				return
			}
		}
	}
}
