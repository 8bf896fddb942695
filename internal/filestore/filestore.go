// Package filestore defines the attachment gateway the bid core
// stores file bytes through. Production uses an external object
// store; DirStore keeps bytes on local disk for development and tests.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Store interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (reference string, err error)
	Delete(ctx context.Context, reference string) error
}

type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("filestore.NewDirStore: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Upload(_ context.Context, r io.Reader, filename, _ string) (string, error) {
	reference := uuid.NewString() + filepath.Ext(filename)

	f, err := os.Create(filepath.Join(s.dir, reference))
	if err != nil {
		return "", fmt.Errorf("filestore.DirStore.Upload: %w", err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("filestore.DirStore.Upload: %w", err)
	}

	err = f.Close()
	if err != nil {
		return "", fmt.Errorf("filestore.DirStore.Upload: %w", err)
	}

	return reference, nil
}

func (s *DirStore) Delete(_ context.Context, reference string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(reference)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore.DirStore.Delete: %w", err)
	}
	return nil
}
