package persistence

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/lebenslauf/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	data := sampleCV()
	data.PersonalInfo.Photo = "data:image/jpeg;base64,/9j/4AAQ"

	f, err := a.ExportToFile(data, "")
	require.NoError(t, err)

	imported, err := a.ImportFromFile(f.Body)
	require.NoError(t, err)
	assert.Equal(t, data, *imported)
}

func TestExportToFile_Envelope(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	f, err := a.ExportToFile(sampleCV(), "")
	require.NoError(t, err)
	assert.Equal(t, "lebenslauf_2026-03-14.json", f.Name)
	assert.Equal(t, "application/json", f.ContentType)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(f.Body, &env))
	assert.JSONEq(t, `"1.0"`, string(env["version"]))
	assert.JSONEq(t, `"2026-03-14T09:26:53.000Z"`, string(env["timestamp"]))
	assert.Contains(t, env, "data")
}

func TestExportToFile_CustomName(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	f, err := a.ExportToFile(types.NewCVData(), "mein_cv.json")
	require.NoError(t, err)
	assert.Equal(t, "mein_cv.json", f.Name)
}

func TestImportFromFile_MissingData(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	for _, body := range []string{
		`{"version":"1.0","timestamp":"2026-01-01T00:00:00.000Z"}`,
		`{"version":"1.0","data":null}`,
		`{}`,
	} {
		_, err := a.ImportFromFile([]byte(body))
		require.Error(t, err, body)

		var ie *ImportError
		require.ErrorAs(t, err, &ie)
		assert.Contains(t, ie.Error(), `missing "data" field`)
	}
}

func TestImportFromFile_Malformed(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	for _, body := range []string{`not json`, `[1,2,3]`, `{"data":`} {
		_, err := a.ImportFromFile([]byte(body))
		var ie *ImportError
		require.ErrorAs(t, err, &ie, body)
	}
}

func TestImportFromFile_WrongShape(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	_, err := a.ImportFromFile([]byte(`{"data":{"skills":"Go"}}`))
	var ie *ImportError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Message, "skills")
}

func TestImportFromFile_BOMAndMissingIDs(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	body := "\xef\xbb\xbf" + `{"data":{"experience":[{"position":"Dev"},{"position":"Ops"}]}}`

	data, err := a.ImportFromFile([]byte(body))
	require.NoError(t, err)
	require.Len(t, data.Experience, 2)
	assert.NotEmpty(t, data.Experience[0].ID)
	assert.NotEqual(t, data.Experience[0].ID, data.Experience[1].ID)
	assert.Equal(t, []string{}, data.Skills)
}
