package utils

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadURLPrefix is both the static route and the prefix of every stored
// image path.
const UploadURLPrefix = "uploads"

// ErrNotImage rejects uploads whose content type is not image/*.
var ErrNotImage = errors.New("File is not an image")

// UploadStore writes uploaded images into one directory.
type UploadStore struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewUploadStore creates dir when missing.
func NewUploadStore(dir string, log *slog.Logger) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, log: log.With("component", "uploads"), now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save validates every file, then writes them all and returns their stored
// paths in input order. Nothing is left on disk when it fails.
func (s *UploadStore) Save(files []*multipart.FileHeader) ([]string, error) {
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, ErrNotImage
		}
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		stored, err := s.write(fh)
		if err != nil {
			s.Remove(paths)
			return nil, err
		}
		paths = append(paths, stored)
	}

	return paths, nil
}

func (s *UploadStore) write(fh *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload %s: %w", name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("flush upload %s: %w", name, err)
	}

	return path.Join(UploadURLPrefix, name), nil
}

// Remove deletes stored files by their stored paths. Failures are logged
// and otherwise ignored.
func (s *UploadStore) Remove(paths []string) {
	for _, p := range paths {
		name := path.Base(filepath.ToSlash(p))
		if name == "." || name == "/" || name == ".." {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to remove upload", "path", p, "error", err)
		}
	}
}
