// Package store persists gamertags confirmed available
package store

import (
	"fmt"
	"net/http"
	"os"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeWriteFailed marks a failed append to the available file
const TextCodeWriteFailed = "STORE_WRITE_FAILED"

// AvailableFile appends available gamertags to a line-delimited text file.
// The file is reopened for every write so each result reaches disk as soon
// as it is discovered
type AvailableFile struct {
	Path string
}

// NewAvailableFile returns a sink writing to path
func NewAvailableFile(path string) *AvailableFile {
	return &AvailableFile{Path: path}
}

// Append writes gamertag followed by a newline to the end of the file
func (f *AvailableFile) Append(gamertag string) error {
	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return writeError(err, "store: open available file", f.Path, gamertag)
	}

	if _, err := fmt.Fprintln(file, gamertag); err != nil {
		file.Close()
		return writeError(err, "store: write available gamertag", f.Path, gamertag)
	}
	if err := file.Close(); err != nil {
		return writeError(err, "store: close available file", f.Path, gamertag)
	}
	return nil
}

func writeError(source error, message, path, gamertag string) error {
	return goerrors.Wrap(source, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeWriteFailed).
		WithMetadata(map[string]any{"path": path, "gamertag": gamertag})
}
