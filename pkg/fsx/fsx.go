// Package fsx is the file storage contract used for CVs, logos and profile
// pictures.
package fsx

import (
	"context"
	"io"
	"time"
)

// FileReader reads stored files
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileSystem stores files and hands out download links for them
type FileSystem interface {
	FileReader

	// Join builds a storage path from its parts
	Join(parts ...string) string

	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error

	// DownloadURL returns a time-limited URL for path
	DownloadURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
