package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/editor"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/persistence"
	"github.com/jonathan/lebenslauf/internal/photo"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"request error", &RequestError{Message: "bad"}, http.StatusBadRequest},
		{"import error", &persistence.ImportError{Message: "missing data"}, http.StatusBadRequest},
		{"validation", validator.ValidationErrors{}, http.StatusBadRequest},
		{"empty skill", editor.ErrEmptySkill, http.StatusBadRequest},
		{"index", fmt.Errorf("skill 3: %w", editor.ErrIndexOutOfRange), http.StatusBadRequest},
		{"level", fmt.Errorf("%w %q", editor.ErrInvalidLevel, "D1"), http.StatusBadRequest},
		{"item not found", editor.ErrItemNotFound, http.StatusNotFound},
		{"storage full", fmt.Errorf("%w: cv-builder-data", persistence.ErrStorageFull), http.StatusInsufficientStorage},
		{"not visible", &export.ExportError{Cause: export.ErrSurfaceNotVisible}, http.StatusUnprocessableEntity},
		{"not found", &export.ExportError{Cause: export.ErrSurfaceNotFound}, http.StatusUnprocessableEntity},
		{"busy", app.ErrExportInProgress, http.StatusConflict},
		{"photo size", photo.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge},
		{"body size", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"photo type", fmt.Errorf("%w: got text/plain", photo.ErrUnsupportedPhoto), http.StatusUnsupportedMediaType},
		{"confirm", errConfirmRequired, http.StatusPreconditionRequired},
		{"comments off", errCommentsDisabled, http.StatusServiceUnavailable},
		{"capture", &export.ExportError{Cause: &export.CaptureError{Cause: assert.AnError}}, http.StatusInternalServerError},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestMessage_Localized(t *testing.T) {
	notVisible := &export.ExportError{Cause: export.ErrSurfaceNotVisible}

	assert.Equal(t, i18n.T(i18n.Tajik, i18n.KeyErrNotVisible), Message(i18n.Tajik, notVisible))
	assert.Equal(t, "The preview is not visible. Switch to the preview and try again.", Message(i18n.English, notVisible))
	assert.Equal(t, "An export is already running.", Message(i18n.English, app.ErrExportInProgress))
	assert.Equal(t, "The photo is larger than 5 MB.", Message(i18n.English, photo.ErrPhotoTooLarge))
	assert.Equal(t, "PDF export failed: timeout",
		Message(i18n.English, &export.ExportError{Cause: &export.CaptureError{Cause: fmt.Errorf("timeout")}}))
}

func TestMessage_FallsBackToErrorText(t *testing.T) {
	err := &RequestError{Message: "invalid request body", Cause: fmt.Errorf("unexpected EOF")}

	assert.Equal(t, "invalid request body: unexpected EOF", Message(i18n.German, err))
}
