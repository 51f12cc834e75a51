package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rental_agreement_backend/platform/apperr"
)

// LocalStore keeps artifacts on the local filesystem under <dir>/<root>/.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir. Root directories are created on first write.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Path returns the filesystem location of a reference.
func (s *LocalStore) Path(ref string) (string, error) {
	root, name, err := ParseReference(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, string(root), name), nil
}

// Put writes content to a temp file and links it into place, so readers never
// see a partial file and an existing name is never replaced.
func (s *LocalStore) Put(ctx context.Context, root Root, filename string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !root.Valid() {
		return "", apperr.BadRequest(fmt.Sprintf("unknown artifact root %q", root))
	}
	if err := validateFilename(filename); err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, string(root))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Storage("failed to create storage directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", apperr.Storage("failed to create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", apperr.Storage("failed to write artifact", err)
	}
	if err := tmp.Close(); err != nil {
		return "", apperr.Storage("failed to flush artifact", err)
	}

	if err := os.Link(tmpName, filepath.Join(dir, filename)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", apperr.Conflict(fmt.Sprintf("artifact %s already exists", filename))
		}
		return "", apperr.Storage("failed to publish artifact", err)
	}

	return Reference(root, filename), nil
}

// Exists reports whether the referenced artifact is present.
func (s *LocalStore) Exists(ctx context.Context, ref string) (bool, error) {
	p, err := s.Path(ref)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, apperr.Storage("failed to stat artifact", err)
	}
	return true, nil
}

// Read returns the artifact bytes.
func (s *LocalStore) Read(ctx context.Context, ref string) ([]byte, error) {
	p, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound(fmt.Sprintf("artifact %s not found", ref))
		}
		return nil, apperr.Storage("failed to read artifact", err)
	}
	return data, nil
}
