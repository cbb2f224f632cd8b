package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStorage is the external file store the app uploads product images
// and business logos to.
type ObjectStorage interface {
	Upload(bucket, name string, r io.Reader) error
	Remove(bucket, name string) error
	PublicURL(bucket, name string) string
}

// LocalStorage keeps objects on the local filesystem under baseDir/bucket
// and serves them from baseURL. Stands in for a hosted bucket service.
type LocalStorage struct {
	baseDir string
	baseURL string
}

func NewLocalStorage(baseDir, baseURL string) *LocalStorage {
	return &LocalStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStorage) Upload(bucket, name string, r io.Reader) error {
	dir := filepath.Join(s.baseDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bucket dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

func (s *LocalStorage) Remove(bucket, name string) error {
	err := os.Remove(filepath.Join(s.baseDir, bucket, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

func (s *LocalStorage) PublicURL(bucket, name string) string {
	return s.baseURL + "/" + bucket + "/" + name
}
