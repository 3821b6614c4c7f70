package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps uploaded CV documents on disk under a single directory.
// Stored names are UUID-prefixed so two uploads of "cv.pdf" never collide.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save streams an upload to disk and returns the stored path and size.
func (s *FileStore) Save(originalName string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create uploads dir: %w", err)
	}

	name := uuid.NewString() + "-" + filepath.Base(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("save file: %w", err)
	}
	return path, size, nil
}

// Remove unlinks a stored file. A file already gone is not an error.
func (s *FileStore) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether the stored file is still on disk.
func (s *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
