// Package media stores uploaded images and resolves the media references of content rows.
package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// ErrKeyOutsideRoot is returned for object keys escaping the local upload directory.
var ErrKeyOutsideRoot = errors.New("media key outside upload directory")

// Storage holds media objects.
type Storage interface {
	// Provider names the backend, stored with every media row.
	Provider() models.StorageProvider
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// LocalStorage keeps objects on the local filesystem, served by the web server under PublicPath.
type LocalStorage struct {
	Dir        string
	PublicPath string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
		return nil, err
	}

	return &LocalStorage{Dir: dir, PublicPath: strings.TrimRight(publicPath, "/")}, nil
}

// Provider implements Storage.
func (*LocalStorage) Provider() models.StorageProvider { return models.StorageLocal }

// Put implements Storage.
func (l *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := l.path(key)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd
		return "", err
	}

	if err = os.WriteFile(path, data, 0o640); err != nil { //nolint:mnd
		return "", err
	}

	return l.PublicPath + "/" + key, nil
}

// Delete implements Storage.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (l *LocalStorage) path(key string) (string, error) {
	root, err := filepath.Abs(l.Dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, filepath.FromSlash(key))

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrKeyOutsideRoot
	}

	return path, nil
}
