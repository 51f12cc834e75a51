// Package storage provides the artifact store: write-once blobs addressed by
// references of the form "/<root>/<filename>".
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"rental_agreement_backend/platform/apperr"
)

// Root is a logical top-level location for stored artifacts.
type Root string

const (
	// RootUploads holds normalized images, signatures and identity scans.
	RootUploads Root = "uploads"
	// RootBackups holds generated agreement documents.
	RootBackups Root = "backups"
)

// Valid reports whether r is a known root.
func (r Root) Valid() bool {
	return r == RootUploads || r == RootBackups
}

// ArtifactStore persists immutable artifacts.
// Put never overwrites an existing filename.
type ArtifactStore interface {
	Put(ctx context.Context, root Root, filename string, content []byte, contentType string) (string, error)
	Exists(ctx context.Context, ref string) (bool, error)
	Read(ctx context.Context, ref string) ([]byte, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetStorageBackend() string
	GetStorageDir() string
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketArtifacts() string
	IsMinIOEnabled() bool
}

// Reference builds the public reference for a stored file.
func Reference(root Root, filename string) string {
	return "/" + string(root) + "/" + filename
}

// ParseReference splits a reference into root and filename, rejecting unknown
// roots, nested paths and traversal.
func ParseReference(ref string) (Root, string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ref), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return "", "", apperr.BadRequest(fmt.Sprintf("malformed artifact reference %q", ref))
	}
	root := Root(parts[0])
	if !root.Valid() {
		return "", "", apperr.BadRequest(fmt.Sprintf("unknown artifact root %q", parts[0]))
	}
	if err := validateFilename(parts[1]); err != nil {
		return "", "", err
	}
	return root, parts[1], nil
}

func validateFilename(name string) error {
	if name == "" || name == "." || name == ".." || path.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return apperr.BadRequest(fmt.Sprintf("invalid artifact filename %q", name))
	}
	return nil
}

// New selects the backend named by the configuration.
func New(ctx context.Context, cfg Config) (ArtifactStore, error) {
	switch cfg.GetStorageBackend() {
	case "minio":
		store, err := NewMinIOStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucketExists(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return NewLocalStore(cfg.GetStorageDir()), nil
	}
}
