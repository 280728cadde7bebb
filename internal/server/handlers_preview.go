package server

import (
	"net/http"

	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/rendering"
)

// handleRoot redirects to the preview in the negotiated language.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Negotiate(r.Header.Get("Accept-Language"), s.lang)
	http.Redirect(w, r, "/"+string(lang)+"/lebenslauf", http.StatusFound)
}

// handlePreview renders the current state as a standalone page. view=edit
// renders the layout used while the editor is shown on a narrow screen.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	lang, ok := i18n.FromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, custom := s.ws.Snapshot()
	page, err := rendering.RenderPage(data, custom, lang, rendering.PageOptions{
		ResponsiveToggle: true,
		HidePreview:      r.URL.Query().Get("view") == "edit",
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(lang))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
