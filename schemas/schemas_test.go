package schemas

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/lebenslauf/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVExport_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(CVExport), &v))
	assert.Equal(t, "object", v["type"])
	assert.Contains(t, v["required"], "data")
}

func TestCVExport_AcceptsMinimalEnvelope(t *testing.T) {
	err := schemas.ValidateJSONString(CVExport, `{"version":"1.0","timestamp":"2026-01-01T00:00:00Z","data":{}}`)
	assert.NoError(t, err)
}

func TestCVExport_RejectsMissingData(t *testing.T) {
	err := schemas.ValidateJSONString(CVExport, `{"version":"1.0"}`)
	require.Error(t, err)

	var ve *schemas.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestCVExport_RejectsUnknownLevel(t *testing.T) {
	doc := `{"data":{"languages":[{"language":"Deutsch","level":"Z9"}]}}`
	assert.Error(t, schemas.ValidateJSONString(CVExport, doc))
}

func TestCVExport_RejectsForeignPhotoPayload(t *testing.T) {
	doc := `{"data":{"personalInfo":{"photo":"javascript:alert(1)"}}}`
	assert.Error(t, schemas.ValidateJSONString(CVExport, doc))
}
