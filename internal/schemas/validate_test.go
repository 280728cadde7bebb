package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"}
  }
}`

func TestValidateJSONString_Valid(t *testing.T) {
	assert.NoError(t, ValidateJSONString(personSchema, `{"name":"Aziz","age":30}`))
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"age":30}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "error should be ValidationError type")
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "(root)", ve.Errors[0].Field)
	assert.Contains(t, ve.First(), "name")
}

func TestValidateJSONBytes_WrongType(t *testing.T) {
	err := ValidateJSONBytes(personSchema, []byte(`{"name":"Aziz","age":"thirty"}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "age", ve.Errors[0].Field)
	assert.Contains(t, ve.Error(), "validation failed")
}

func TestValidateJSONBytes_MalformedDocument(t *testing.T) {
	err := ValidateJSONBytes(personSchema, []byte(`{"name":`))
	require.Error(t, err)

	var le *SchemaLoadError
	require.ErrorAs(t, err, &le)
	assert.NotNil(t, le.Unwrap())
}

func TestValidationError_FirstEmpty(t *testing.T) {
	assert.Equal(t, "", (&ValidationError{}).First())
}
