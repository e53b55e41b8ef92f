// Package uploads stores multipart file uploads on local disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMaxBytes caps uploads at 5 MiB unless configured otherwise.
const DefaultMaxBytes = 5 * 1024 * 1024

// ErrTooLarge is returned when an upload exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds upload size limit")

// Store writes uploaded files under Dir with generated names. Writes are
// fire-and-forget: a caller whose record save fails afterwards leaves the
// file behind.
type Store struct {
	Dir      string
	MaxBytes int64
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save writes the uploaded file to disk under a collision-resistant name that
// keeps the original extension, and returns the public path ("/<dir>/<name>")
// to record on the owning entity.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.MaxBytes {
		return "", ErrTooLarge
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/" + path.Join(filepath.Base(s.Dir), name), nil
}
