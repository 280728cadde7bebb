package comments

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_Validate(t *testing.T) {
	c := Comment{Page: " /de/lebenslauf ", Author: " Aziz ", Body: " Danke! "}
	require.NoError(t, c.Validate())
	assert.Equal(t, "/de/lebenslauf", c.Page)
	assert.Equal(t, "Aziz", c.Author)
	assert.Equal(t, "Danke!", c.Body)
}

func TestComment_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		c    Comment
	}{
		{"blank body", Comment{Page: "/", Author: "A", Body: "   "}},
		{"missing author", Comment{Page: "/", Body: "x"}},
		{"long body", Comment{Page: "/", Author: "A", Body: strings.Repeat("x", 2001)}},
		{"long author", Comment{Page: "/", Author: strings.Repeat("a", 81), Body: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.c.Validate())
		})
	}
}

func TestDecodeNotification(t *testing.T) {
	id := uuid.New()
	c, err := decodeNotification(`{"id":"` + id.String() + `","page":"/","author":"A","body":"hi","created_at":"2026-03-14T09:26:53Z"}`)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "hi", c.Body)

	_, err = decodeNotification(`{"page":"/"}`)
	assert.Error(t, err)

	_, err = decodeNotification(`not json`)
	assert.Error(t, err)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	b, err := migrations.ReadFile("migrations/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(b), "-- +goose Up")
	assert.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS comments")
}
