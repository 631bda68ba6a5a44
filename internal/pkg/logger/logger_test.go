package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DEBUG)
	SetRedactPII(true)
	t.Cleanup(func() {
		SetOutput(nopWriter{})
		SetLevel(INFO)
	})
	return &buf
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-address", "***"},
		{"", ""},
		{"we@ird@example.com", "we***@example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" WARN "))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel(""))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestLog_RedactsEmailFields(t *testing.T) {
	buf := capture(t)

	Info("incoming subscription", "email", "alice@example.com", "attempt", 1)

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "incoming subscription", entry["msg"])
	assert.Equal(t, "al***@example.com", entry["email"])
	assert.Equal(t, "1", entry["attempt"])
}

func TestLog_RedactsEmbeddedAddresses(t *testing.T) {
	buf := capture(t)

	Error("insert failed", "error", errors.New("Key (email)=(bob.smith@example.org) already exists"))

	assert.NotContains(t, buf.String(), "bob.smith@example.org")
	assert.Contains(t, buf.String(), "bo***@example.org")
}

func TestLog_RespectsLevel(t *testing.T) {
	buf := capture(t)
	SetLevel(WARN)

	Info("dropped")
	Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}
