package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists uploaded files and maps them to public URLs. The durable
// database record is the source of truth; callers treat Remove failures as
// non-fatal housekeeping.
type Store interface {
	Save(filename string, data []byte) (url string, err error)
	Remove(url string) error
}

// DiskStore writes files under a single directory and serves them under a
// fixed URL prefix. The prefix is baked into every URL at save time, so
// changing it breaks previously stored URLs.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates a DiskStore rooted at dir with the given serving
// prefix (e.g. "/uploads").
func NewDiskStore(dir, urlPrefix string) *DiskStore {
	return &DiskStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save writes data to dir/filename and returns the public URL.
func (s *DiskStore) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return s.urlPrefix + "/" + filename, nil
}

// Remove deletes the file a stored URL points at. A URL whose file is already
// gone is not an error.
func (s *DiskStore) Remove(url string) error {
	filename := url[strings.LastIndex(url, "/")+1:]
	if filename == "" {
		return fmt.Errorf("cannot derive filename from url %q", url)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove file %s: %w", filename, err)
	}
	return nil
}
