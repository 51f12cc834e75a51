package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"rental_agreement_backend/platform/apperr"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore keeps artifacts in a single bucket under "<root>/<filename>" keys.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore creates a new MinIO artifact store.
func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{client: client, bucket: cfg.GetMinioBucketArtifacts()}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

func objectKey(root Root, filename string) string {
	return string(root) + "/" + filename
}

// Put uploads content unless the key is already taken.
func (s *MinIOStore) Put(ctx context.Context, root Root, filename string, content []byte, contentType string) (string, error) {
	if !root.Valid() {
		return "", apperr.BadRequest(fmt.Sprintf("unknown artifact root %q", root))
	}
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	key := objectKey(root, filename)

	exists, err := s.statKey(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperr.Conflict(fmt.Sprintf("artifact %s already exists", filename))
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", apperr.Storage(fmt.Sprintf("failed to upload %s", key), err)
	}
	return Reference(root, filename), nil
}

// Exists reports whether the referenced object is present.
func (s *MinIOStore) Exists(ctx context.Context, ref string) (bool, error) {
	root, name, err := ParseReference(ref)
	if err != nil {
		return false, err
	}
	return s.statKey(ctx, objectKey(root, name))
}

func (s *MinIOStore) statKey(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, apperr.Storage(fmt.Sprintf("failed to stat %s", key), err)
}

// Read downloads the referenced object.
func (s *MinIOStore) Read(ctx context.Context, ref string) ([]byte, error) {
	root, name, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	key := objectKey(root, name)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperr.Storage(fmt.Sprintf("failed to get object %s", key), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperr.NotFound(fmt.Sprintf("artifact %s not found", ref))
		}
		return nil, apperr.Storage(fmt.Sprintf("failed to read object %s", key), err)
	}
	return data, nil
}
