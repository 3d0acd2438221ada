// Package storage keeps task attachment content outside the database.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrTooLarge is returned by Put when the content exceeds the store limit
var ErrTooLarge = errors.New("file exceeds size limit")

// FileStore holds attachment blobs addressed by opaque keys
type FileStore interface {
	// Put writes r under a newly generated key and returns the key and size
	Put(r io.Reader) (key string, size int64, err error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
	RemoveAll() error
}

// AferoStore is a FileStore on top of an afero filesystem
type AferoStore struct {
	fs      afero.Fs
	maxSize int64
}

// NewAferoStore creates a store on fs. maxSize <= 0 disables the limit.
func NewAferoStore(fs afero.Fs, maxSize int64) *AferoStore {
	return &AferoStore{fs: fs, maxSize: maxSize}
}

// NewDirStore creates a store rooted at dir on the OS filesystem
func NewDirStore(dir string, maxSize int64) (*AferoStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create file store directory: %w", err)
	}
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir), maxSize), nil
}

// Put stores the content of r under a fresh uuid key
func (s *AferoStore) Put(r io.Reader) (string, int64, error) {
	key := uuid.NewString()

	f, err := s.fs.OpenFile(blobPath(key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		// one extra byte tells an oversized file apart from an exact fit
		src = io.LimitReader(r, s.maxSize+1)
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = s.fs.Remove(blobPath(key))
		if errors.Is(err, ErrTooLarge) {
			return "", 0, err
		}
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return key, n, nil
}

// Open returns a reader for the blob stored under key
func (s *AferoStore) Open(key string) (io.ReadCloser, error) {
	f, err := s.fs.Open(blobPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return f, nil
}

// Remove deletes the blob stored under key. Missing blobs are not an error.
func (s *AferoStore) Remove(key string) error {
	if err := s.fs.Remove(blobPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

// RemoveAll deletes every blob in the store
func (s *AferoStore) RemoveAll() error {
	entries, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}
	for _, entry := range entries {
		if err := s.fs.RemoveAll(blobPath(entry.Name())); err != nil {
			return fmt.Errorf("failed to remove blob %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func blobPath(key string) string {
	return path.Join("/", key)
}
