// Package server provides the local HTTP API of the CV builder: the preview
// page, the editors, import/export, the PDF export with streamed progress
// and the optional comments feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/comments"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/server/ratelimit"
)

// PDFExporter produces a PDF for the current state.
type PDFExporter interface {
	Export(ctx context.Context, opts app.PDFOptions, progress export.ProgressFunc) (*export.Result, error)
}

// CommentStore persists comments and streams new ones.
type CommentStore interface {
	Insert(ctx context.Context, c comments.Comment) (*comments.Comment, error)
	List(ctx context.Context, page string, limit int) ([]comments.Comment, error)
	Subscribe(ctx context.Context) (<-chan comments.Comment, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	ws          *app.Workspace
	exporter    PDFExporter
	comments    CommentStore
	exports     *exportCache
	rateLimiter *ratelimit.Limiter
	log         logging.Logger
	lang        i18n.Lang
}

// Config holds server configuration
type Config struct {
	Port        int
	DefaultLang i18n.Lang
	// RateLimit defaults to ratelimit.LoadConfig when nil.
	RateLimit *ratelimit.Config
}

// Deps are the collaborators the handlers work on. Comments may be nil, in
// which case the comment endpoints answer 503.
type Deps struct {
	Workspace *app.Workspace
	Exporter  PDFExporter
	Comments  CommentStore
	Log       logging.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	lang := cfg.DefaultLang
	if _, ok := i18n.Parse(string(lang)); !ok {
		lang = i18n.Default
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		ws:          deps.Workspace,
		exporter:    deps.Exporter,
		comments:    deps.Comments,
		exports:     newExportCache(exportTTL),
		rateLimiter: ratelimit.NewLimiter(rl),
		log:         log.With("component", "server"),
		lang:        lang,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Preview page
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /{lang}/lebenslauf", s.handlePreview)

	// Whole résumé
	mux.HandleFunc("GET /api/cv", s.handleGetCV)
	mux.HandleFunc("PUT /api/cv", s.handleReplaceCV)
	mux.HandleFunc("DELETE /api/cv", s.handleClearCV)
	mux.HandleFunc("GET /api/cv/completeness", s.handleCompleteness)

	// Editors
	mux.HandleFunc("PUT /api/cv/personal", s.handleSetPersonal)
	mux.HandleFunc("PUT /api/cv/summary", s.handleSetSummary)
	mux.HandleFunc("POST /api/cv/photo", s.handleUploadPhoto)
	mux.HandleFunc("DELETE /api/cv/photo", s.handleClearPhoto)
	mux.HandleFunc("POST /api/cv/skills", s.handleAddSkill)
	mux.HandleFunc("PUT /api/cv/skills", s.handleSetSkills)
	mux.HandleFunc("DELETE /api/cv/skills/{index}", s.handleRemoveSkill)
	mux.HandleFunc("POST /api/cv/{section}", s.handleAddItem)
	mux.HandleFunc("PUT /api/cv/{section}/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/cv/{section}/{id}", s.handleRemoveItem)
	mux.HandleFunc("POST /api/cv/{section}/{id}/move", s.handleMoveItem)

	// Customization
	mux.HandleFunc("GET /api/customization", s.handleGetCustomization)
	mux.HandleFunc("PUT /api/customization", s.handleSetCustomization)

	// Files
	mux.HandleFunc("GET /api/cv/export", s.handleExportJSON)
	mux.HandleFunc("POST /api/cv/import", s.handleImportJSON)
	mux.HandleFunc("POST /api/cv/pdf", s.handlePDF)
	mux.HandleFunc("POST /api/cv/pdf/stream", s.handlePDFStream)
	mux.HandleFunc("GET /api/exports/{id}", s.handleDownloadExport)

	// Comments
	mux.HandleFunc("GET /api/comments", s.handleListComments)
	mux.HandleFunc("POST /api/comments", s.handleCreateComment)
	mux.HandleFunc("GET /api/comments/stream", s.handleCommentStream)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second, // exports can take a while
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info(gctx, "server starting", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info(context.WithoutCancel(gctx), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 30*time.Second)
		defer cancel()
		defer s.rateLimiter.Stop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder keeps the status code for the request log. It forwards
// Flush so that SSE handlers keep streaming.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn(context.Background(), "failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and a localized message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusInsufficientStorage {
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.errorResponse(w, status, Message(s.requestLang(r), err))
}

// requestLang picks the language for messages: ?lang=, then
// Accept-Language, then the configured default.
func (s *Server) requestLang(r *http.Request) i18n.Lang {
	if l, ok := i18n.Parse(r.URL.Query().Get("lang")); ok {
		return l
	}
	return i18n.Negotiate(r.Header.Get("Accept-Language"), s.lang)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &RequestError{Message: "invalid request body", Cause: err}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn(r.Context(), "rate limit exceeded",
		"client", s.extractClientID(r), "path", r.URL.Path, "limit", info.Limit)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
