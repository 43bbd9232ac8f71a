package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	prev := version
	version = v
	t.Cleanup(func() { version = prev })
}

func TestVersionCmd(t *testing.T) {
	withVersion(t, "1.4.0")

	out, err := executeCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "timetable 1.4.0\n")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionCmd_Short(t *testing.T) {
	withVersion(t, "dev")

	out, err := executeCommand(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
