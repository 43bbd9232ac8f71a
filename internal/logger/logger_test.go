package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuffer(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestDebug_SilentWithoutVerbose(t *testing.T) {
	buf := withBuffer(t, false)

	Debug("visiting %s", "o1.html")
	Info("crawl started")

	assert.Empty(t, buf.String())
}

func TestDebug_WritesWhenVerbose(t *testing.T) {
	buf := withBuffer(t, true)

	Debug("visiting %s", "o1.html")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "visiting o1.html")
}

func TestWarn_AlwaysWritten(t *testing.T) {
	buf := withBuffer(t, false)

	Warn("page %s failed", "n3.html")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "page n3.html failed")
}

func TestSection_OnlyWhenVerbose(t *testing.T) {
	buf := withBuffer(t, false)
	Section("Crawl")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Section("Crawl")
	assert.Contains(t, buf.String(), "=== Crawl ===")
}

func TestIsVerbose(t *testing.T) {
	withBuffer(t, true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}
