package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/lebenslauf/internal/schemas"
	"github.com/jonathan/lebenslauf/internal/types"
	cvschemas "github.com/jonathan/lebenslauf/schemas"
)

// Envelope is the exported file format.
type Envelope struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Data      types.CVData `json:"data"`
}

// File is an export ready to be offered as a download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// ExportToFile wraps data in a versioned, timestamped envelope. An empty
// filename defaults to lebenslauf_<date>.json.
func (a *Adapter) ExportToFile(data types.CVData, filename string) (*File, error) {
	now := a.now().UTC()
	env := Envelope{
		Version:   FormatVersion,
		Timestamp: now.Format(timestampLayout),
		Data:      data.Normalize(),
	}
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	if filename == "" {
		filename = fmt.Sprintf("lebenslauf_%s.json", now.Format(time.DateOnly))
	}
	return &File{Name: filename, ContentType: "application/json", Body: body}, nil
}

// ImportFromFile parses an export envelope. It does not touch storage; the
// caller decides whether to replace the current state.
func (a *Adapter) ImportFromFile(contents []byte) (*types.CVData, error) {
	contents = bytes.TrimPrefix(contents, []byte("\xef\xbb\xbf"))

	var root map[string]json.RawMessage
	if err := json.Unmarshal(contents, &root); err != nil {
		return nil, &ImportError{Message: "file is not a JSON object", Cause: err}
	}
	if raw, ok := root["data"]; !ok || string(raw) == "null" {
		return nil, &ImportError{Message: `missing "data" field`}
	}

	if err := schemas.ValidateJSONBytes(cvschemas.CVExport, contents); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, &ImportError{Message: "unexpected file structure (" + ve.First() + ")", Cause: err}
		}
		return nil, &ImportError{Message: "could not validate file", Cause: err}
	}

	var env Envelope
	if err := json.Unmarshal(contents, &env); err != nil {
		return nil, &ImportError{Message: "could not decode file", Cause: err}
	}
	data := env.Data.EnsureIDs()
	return &data, nil
}
