package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore stores raw upload bytes under a server-generated key.
// Put is last-writer-wins for a given key; keys are unique per upload
// so concurrent writers never share one in practice.
type BlobStore interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// DirBlobStore keeps blobs as plain files in a single directory.
type DirBlobStore struct {
	root string
}

// NewDirBlobStore ensures the storage directory exists and returns a
// store rooted there.
func NewDirBlobStore(root string) (*DirBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DirBlobStore{root: root}, nil
}

// validBlobKey rejects keys that could escape the storage root.
// Keys carry a sanitized filename component but are still treated as
// untrusted on the download path, where they arrive straight from the URL.
func validBlobKey(key string) bool {
	if key == "" || len(key) > 512 {
		return false
	}
	if strings.ContainsAny(key, "/\\\x00") {
		return false
	}
	if key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return false
	}
	// Joined path must stay inside the root.
	return filepath.Base(key) == key
}

func (d *DirBlobStore) Put(key string, data []byte) error {
	if !validBlobKey(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	if err := os.WriteFile(filepath.Join(d.root, key), data, 0o644); err != nil {
		return fmt.Errorf("%w: write blob: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes a blob. Deleting a key that does not exist is not an
// error. Upload records are never deleted; this exists for internal
// housekeeping such as health probes.
func (d *DirBlobStore) Delete(key string) error {
	if !validBlobKey(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	if err := os.Remove(filepath.Join(d.root, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: delete blob: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (d *DirBlobStore) Get(key string) ([]byte, error) {
	if !validBlobKey(key) {
		return nil, ErrBlobNotFound
	}
	data, err := os.ReadFile(filepath.Join(d.root, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: read blob: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}
