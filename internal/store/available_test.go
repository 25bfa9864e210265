package store

import (
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableFile_AppendCreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "available.txt")
	sink := NewAvailableFile(path)

	require.NoError(t, sink.Append("Player2"))
	require.NoError(t, sink.Append("Major Tom"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Player2\nMajor Tom\n", string(data))
}

func TestAvailableFile_AppendKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "available.txt")
	require.NoError(t, os.WriteFile(path, []byte("Earlier\n"), 0o644))

	require.NoError(t, NewAvailableFile(path).Append("Later"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Earlier\nLater\n", string(data))
}

func TestAvailableFile_AppendFailureReturnsRichError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "available.txt")

	err := NewAvailableFile(path).Append("Player2")
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryInternal, rich.Category)
	assert.Equal(t, TextCodeWriteFailed, rich.TextCode)
}
