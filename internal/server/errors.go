package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/editor"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/persistence"
	"github.com/jonathan/lebenslauf/internal/photo"
)

var (
	errNotFound           = errors.New("not found")
	errConfirmRequired    = errors.New("import requires confirm=true")
	errCommentsDisabled   = errors.New("comments are not configured")
	errStreamsUnsupported = errors.New("streaming not supported")
)

// RequestError indicates a malformed request.
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr    *RequestError
		importErr *persistence.ImportError
		valErrs   validator.ValidationErrors
		maxBytes  *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, photo.ErrPhotoTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, photo.ErrUnsupportedPhoto):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &reqErr), errors.As(err, &importErr), errors.As(err, &valErrs),
		errors.Is(err, editor.ErrEmptySkill), errors.Is(err, editor.ErrIndexOutOfRange),
		errors.Is(err, editor.ErrInvalidLevel):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrItemNotFound), errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, errConfirmRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, export.ErrSurfaceNotFound), errors.Is(err, export.ErrSurfaceNotVisible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, persistence.ErrStorageFull):
		return http.StatusInsufficientStorage
	case errors.Is(err, errCommentsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for err in lang. Errors without a
// translation keep their own text.
func Message(lang i18n.Lang, err error) string {
	var (
		captureErr *export.CaptureError
		importErr  *persistence.ImportError
	)
	switch {
	case errors.Is(err, export.ErrSurfaceNotVisible):
		return i18n.T(lang, i18n.KeyErrNotVisible)
	case errors.Is(err, export.ErrSurfaceNotFound):
		return i18n.T(lang, i18n.KeyErrNotFound)
	case errors.As(err, &captureErr):
		return i18n.T(lang, i18n.KeyErrCapture) + ": " + captureErr.Cause.Error()
	case errors.As(err, &importErr):
		return i18n.T(lang, i18n.KeyErrImport) + ": " + importErr.Message
	case errors.Is(err, persistence.ErrStorageFull):
		return i18n.T(lang, i18n.KeyErrStorageFull)
	case errors.Is(err, app.ErrExportInProgress):
		return i18n.T(lang, i18n.KeyErrBusy)
	case errors.Is(err, photo.ErrPhotoTooLarge):
		return i18n.T(lang, i18n.KeyErrPhotoSize)
	case errors.Is(err, photo.ErrUnsupportedPhoto):
		return i18n.T(lang, i18n.KeyErrPhotoType)
	case errors.Is(err, errConfirmRequired):
		return i18n.T(lang, i18n.KeyErrConfirmImport)
	case err == nil:
		return http.StatusText(http.StatusInternalServerError)
	default:
		return err.Error()
	}
}
