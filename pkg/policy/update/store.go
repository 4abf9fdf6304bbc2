package update

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes the cached policy document.
type Store interface {
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
}

// FileStore is a Store backed by the local filesystem. Writes go to a
// temporary file in the same directory that is then renamed over the
// target, so readers never observe a partial document.
type FileStore struct {
	// Perm is the mode of written files. Zero means 0644.
	Perm os.FileMode
}

// ReadAll returns the contents of path.
func (s FileStore) ReadAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteAll atomically replaces path with data, creating parent
// directories as needed.
func (s FileStore) WriteAll(path string, data []byte) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create policy directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write policy: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync policy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close policy: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set policy permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace policy: %w", err)
	}
	return nil
}
