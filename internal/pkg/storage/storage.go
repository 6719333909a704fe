package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath = errors.New("invalid file path")
	ErrNotFound    = errors.New("file not found")
)

type FileStorage interface {
	// Upload stores a file and returns its cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download opens a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the relative paths of regular files directly under dir,
	// sorted by name
	List(ctx context.Context, dir string) ([]string, error)
}
