package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/export"
)

const (
	exportTTL        = 10 * time.Minute
	maxCachedExports = 8
)

// ProgressEvent is the payload of a "progress" SSE event.
type ProgressEvent struct {
	export.Progress
	Message string `json:"message"`
}

func (s *Server) pdfOptions(r *http.Request) app.PDFOptions {
	return app.PDFOptions{
		Lang:        s.requestLang(r),
		HidePreview: r.URL.Query().Get("view") == "edit",
	}
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	res, err := s.exporter.Export(r.Context(), s.pdfOptions(r), nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info(r.Context(), "pdf exported", "filename", res.Filename, "pages", res.Pages)
	writeAttachment(w, res.Filename, "application/pdf", res.PDF)
}

// handlePDFStream runs an export while streaming progress events. The
// finished PDF is kept for a while and fetched from /api/exports/{id}.
func (s *Server) handlePDFStream(w http.ResponseWriter, r *http.Request) {
	if s.ws.Exporting() {
		s.fail(w, r, app.ErrExportInProgress)
		return
	}
	opts := s.pdfOptions(r)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.exporter.Export(r.Context(), opts, func(p export.Progress) {
		_ = sse.WriteEvent("progress", ProgressEvent{Progress: p, Message: p.Message(opts.Lang)})
	})
	if err != nil {
		s.log.Warn(r.Context(), "streamed pdf export failed", "error", err)
		sse.WriteError(HTTPStatus(err), Message(opts.Lang, err))
		return
	}

	id := s.exports.Put(res)
	sse.WriteComplete(id, res.Filename, res.Pages)
}

func (s *Server) handleDownloadExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.exports.Get(r.PathValue("id"))
	if !ok {
		s.fail(w, r, errNotFound)
		return
	}
	writeAttachment(w, res.Filename, "application/pdf", res.PDF)
}

type cachedExport struct {
	result  *export.Result
	expires time.Time
}

// exportCache holds finished streamed exports until they expire.
type exportCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cachedExport
	now     func() time.Time
}

func newExportCache(ttl time.Duration) *exportCache {
	return &exportCache{ttl: ttl, entries: make(map[string]cachedExport), now: time.Now}
}

// Put stores res and returns its id.
func (c *exportCache) Put(res *export.Result) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneLocked(now)
	if len(c.entries) >= maxCachedExports {
		var oldest string
		for id, e := range c.entries {
			if oldest == "" || e.expires.Before(c.entries[oldest].expires) {
				oldest = id
			}
		}
		delete(c.entries, oldest)
	}

	id := uuid.NewString()
	c.entries[id] = cachedExport{result: res, expires: now.Add(c.ttl)}
	return id
}

// Get returns an unexpired export.
func (c *exportCache) Get(id string) (*export.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !c.now().Before(e.expires) {
		delete(c.entries, id)
		return nil, false
	}
	return e.result, true
}

func (c *exportCache) pruneLocked(now time.Time) {
	for id, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, id)
		}
	}
}

