package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	log, closer, err := New(Options{FilePath: path})
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	for _, msg := range []string{"first", "second"} {
		log, closer, err := New(Options{FilePath: path})
		require.NoError(t, err)
		log.Info().Msg(msg)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New(Options{FilePath: filepath.Join(t.TempDir(), "missing", "dir", "server.log")})
	require.Error(t, err)
}
