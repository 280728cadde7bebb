package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug(context.Background(), "dbg", "k", 1)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "k=1")
}

func TestNew_QuietSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")

	assert.NotContains(t, buf.String(), "msg=dbg")
	assert.Contains(t, buf.String(), "msg=inf")
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).With("component", "storage")

	log.Warn(context.Background(), "corrupt value", "key", "cv-builder-data")

	out := buf.String()
	for _, want := range []string{"level=WARN", "component=storage", "key=cv-builder-data"} {
		assert.Contains(t, out, want)
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	log.Error(context.TODO(), "ignored", "err", "x")
}
