package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/lebenslauf/internal/editor"
	"github.com/jonathan/lebenslauf/internal/photo"
	"github.com/jonathan/lebenslauf/internal/rendering"
	"github.com/jonathan/lebenslauf/internal/types"
)

const (
	maxJSONBody   = 2 << 20
	maxImportBody = 10 << 20
	maxPhotoBody  = photo.MaxUploadSize + 1<<20
)

// SummaryRequest is the body of PUT /api/cv/summary.
type SummaryRequest struct {
	Summary string `json:"summary"`
}

// SkillRequest is the body of POST /api/cv/skills.
type SkillRequest struct {
	Skill string `json:"skill"`
}

// SkillsRequest is the body of PUT /api/cv/skills.
type SkillsRequest struct {
	Skills []string `json:"skills"`
}

// MoveRequest is the body of POST /api/cv/{section}/{id}/move.
type MoveRequest struct {
	To int `json:"to"`
}

// PhotoResponse carries the stored photo data URL.
type PhotoResponse struct {
	Photo string `json:"photo"`
}

func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	if t, ok := s.ws.LastSaved(r.Context()); ok {
		w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
	}
	s.jsonResponse(w, http.StatusOK, s.ws.Data())
}

func (s *Server) handleReplaceCV(w http.ResponseWriter, r *http.Request) {
	var data types.CVData
	if err := decodeJSON(w, r, &data); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Edit(r.Context(), func(types.CVData) types.CVData {
		return data.EnsureIDs()
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleClearCV(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Clear(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteness(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, editor.CheckCompleteness(s.ws.Data()))
}

func (s *Server) handleSetPersonal(w http.ResponseWriter, r *http.Request) {
	var p types.PersonalInfo
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Edit(r.Context(), func(d types.CVData) types.CVData {
		return editor.SetPersonalInfo(d, p)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out.PersonalInfo)
}

func (s *Server) handleSetSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Edit(r.Context(), func(d types.CVData) types.CVData {
		return editor.SetSummary(d, req.Summary)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SummaryRequest{Summary: out.Summary})
}

// handleUploadPhoto accepts either a multipart form with a "photo" field or
// the raw image as the request body.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBody)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		f, _, err := r.FormFile("photo")
		if err != nil {
			s.fail(w, r, &RequestError{Message: "missing photo field", Cause: err})
			return
		}
		defer f.Close()
		src = f
	}

	dataURL, err := photo.Process(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ws.Edit(r.Context(), func(d types.CVData) types.CVData {
		return editor.SetPhoto(d, dataURL)
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, PhotoResponse{Photo: dataURL})
}

func (s *Server) handleClearPhoto(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ws.Edit(r.Context(), editor.ClearPhoto); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
		return editor.AddSkill(d, req.Skill)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SkillsRequest{Skills: out.Skills})
}

func (s *Server) handleSetSkills(w http.ResponseWriter, r *http.Request) {
	var req SkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Edit(r.Context(), func(d types.CVData) types.CVData {
		return editor.SetSkills(d, req.Skills)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SkillsRequest{Skills: out.Skills})
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.fail(w, r, &RequestError{Message: "invalid skill index", Cause: err})
		return
	}
	out, err := s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
		return editor.RemoveSkill(d, index)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SkillsRequest{Skills: out.Skills})
}

// addItem decodes an entry of the named list section and appends it.
func (s *Server) addItem(ctx context.Context, w http.ResponseWriter, r *http.Request, section string) (any, error) {
	switch section {
	case rendering.SectionExperience:
		var e types.WorkExperience
		if err := decodeJSON(w, r, &e); err != nil {
			return nil, err
		}
		_, err := s.ws.Edit(ctx, func(d types.CVData) types.CVData {
			d, e = editor.AddExperience(d, e)
			return d
		})
		return e, err
	case rendering.SectionEducation:
		var e types.Education
		if err := decodeJSON(w, r, &e); err != nil {
			return nil, err
		}
		_, err := s.ws.Edit(ctx, func(d types.CVData) types.CVData {
			d, e = editor.AddEducation(d, e)
			return d
		})
		return e, err
	case rendering.SectionLanguages:
		var l types.LanguageSkill
		if err := decodeJSON(w, r, &l); err != nil {
			return nil, err
		}
		_, err := s.ws.Update(ctx, func(d types.CVData) (types.CVData, error) {
			var err error
			d, l, err = editor.AddLanguage(d, l)
			return d, err
		})
		return l, err
	default:
		return nil, unknownSection(section)
	}
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.addItem(r.Context(), w, r, r.PathValue("section"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var item any
	var err error

	switch section := r.PathValue("section"); section {
	case rendering.SectionExperience:
		var e types.WorkExperience
		if err = decodeJSON(w, r, &e); err == nil {
			e.ID = id
			item = e
			_, err = s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
				return editor.UpdateExperience(d, e)
			})
		}
	case rendering.SectionEducation:
		var e types.Education
		if err = decodeJSON(w, r, &e); err == nil {
			e.ID = id
			item = e
			_, err = s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
				return editor.UpdateEducation(d, e)
			})
		}
	case rendering.SectionLanguages:
		var l types.LanguageSkill
		if err = decodeJSON(w, r, &l); err == nil {
			l.ID = id
			item = l
			_, err = s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
				return editor.UpdateLanguage(d, l)
			})
		}
	default:
		err = unknownSection(section)
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var remove func(types.CVData, string) (types.CVData, error)
	switch section := r.PathValue("section"); section {
	case rendering.SectionExperience:
		remove = editor.RemoveExperience
	case rendering.SectionEducation:
		remove = editor.RemoveEducation
	case rendering.SectionLanguages:
		remove = editor.RemoveLanguage
	default:
		s.fail(w, r, unknownSection(section))
		return
	}

	if _, err := s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
		return remove(d, id)
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var move func(types.CVData, string, int) (types.CVData, error)
	switch section := r.PathValue("section"); section {
	case rendering.SectionExperience:
		move = editor.MoveExperience
	case rendering.SectionEducation:
		move = editor.MoveEducation
	case rendering.SectionLanguages:
		move = editor.MoveLanguage
	default:
		s.fail(w, r, unknownSection(section))
		return
	}

	var req MoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.ws.Update(r.Context(), func(d types.CVData) (types.CVData, error) {
		return move(d, id, req.To)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func unknownSection(section string) error {
	return fmt.Errorf("section %q: %w", section, errNotFound)
}

func (s *Server) handleGetCustomization(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.ws.Customization())
}

func (s *Server) handleSetCustomization(w http.ResponseWriter, r *http.Request) {
	c := s.ws.Customization()
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := c.Validate(); err != nil {
		s.fail(w, r, &RequestError{Message: "invalid customization", Cause: err})
		return
	}
	if err := s.ws.SetCustomization(r.Context(), c); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	f, err := s.ws.Export(r.URL.Query().Get("filename"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAttachment(w, f.Name, f.ContentType, f.Body)
}

// handleImportJSON replaces the résumé with an uploaded envelope. When the
// current résumé has content the caller must pass confirm=true.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed && !s.ws.Data().IsEmpty() {
		s.fail(w, r, errConfirmRequired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		f, _, err := r.FormFile("file")
		if err != nil {
			s.fail(w, r, &RequestError{Message: "missing file field", Cause: err})
			return
		}
		defer f.Close()
		src = f
	}
	contents, err := io.ReadAll(src)
	if err != nil {
		s.fail(w, r, &RequestError{Message: "failed to read upload", Cause: err})
		return
	}

	out, err := s.ws.Import(r.Context(), contents)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info(r.Context(), "imported cv",
		"experience", len(out.Experience), "education", len(out.Education))
	s.jsonResponse(w, http.StatusOK, out)
}

// writeAttachment sends body as a download. Non-ASCII file names are
// encoded per RFC 2231.
func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// trimmedQuery returns a trimmed query parameter.
func trimmedQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
