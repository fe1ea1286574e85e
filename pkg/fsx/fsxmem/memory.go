// Package fsxmem keeps files in process memory. It backs the memory storage
// driver and tests.
package fsxmem

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
)

type FileSystem struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
}

// New creates an empty file system whose download links start with baseURL
func New(baseURL string) *FileSystem {
	return &FileSystem{
		files:   make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func clean(p string) string { return strings.TrimLeft(path.Clean("/"+p), "/") }

func (fs *FileSystem) Join(parts ...string) string { return path.Join(parts...) }

func (fs *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[clean(p)] = bytes.Clone(data)
	return nil
}

func (fs *FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errx.Wrap(err, "failed to read upload", errx.TypeInternal)
	}
	return fs.WriteFile(ctx, p, data)
}

func (fs *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[clean(p)]
	if !ok {
		return nil, errx.New("file not found", errx.TypeNotFound).WithDetail("path", p)
	}
	return bytes.Clone(data), nil
}

func (fs *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.files[clean(p)]
	return ok, nil
}

func (fs *FileSystem) DeleteFile(ctx context.Context, p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, clean(p))
	return nil
}

func (fs *FileSystem) DownloadURL(ctx context.Context, p string, ttl time.Duration) (string, error) {
	ok, _ := fs.Exists(ctx, p)
	if !ok {
		return "", errx.New("file not found", errx.TypeNotFound).WithDetail("path", p)
	}
	q := url.Values{}
	q.Set("expires", time.Now().Add(ttl).UTC().Format(time.RFC3339))
	return fs.baseURL + "/" + clean(p) + "?" + q.Encode(), nil
}
