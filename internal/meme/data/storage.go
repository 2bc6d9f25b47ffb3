package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"
	"github.com/memebin/memebin/internal/meme/biz"
	pkgminio "github.com/memebin/memebin/internal/pkg/minio"
)

// DefaultContentType is assumed when the upload carries none
const DefaultContentType = "image/jpeg"

// objectClient is the slice of the MinIO wrapper the file store uses
type objectClient interface {
	PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (pkgminio.UploadInfo, error)
	StatObject(ctx context.Context, objectName string) (pkgminio.ObjectInfo, error)
	RemoveObject(ctx context.Context, objectName string) error
	PresignedGetURL(ctx context.Context, objectName string) (*url.URL, error)
}

// MinIOFileStore implements biz.FileStore over the MinIO wrapper
type MinIOFileStore struct {
	client objectClient
}

// NewMinIOFileStore creates the MinIO-backed file store
func NewMinIOFileStore(client *pkgminio.Client) biz.FileStore {
	return &MinIOFileStore{client: client}
}

// Upload stores data and returns the final key, a retrieval URL and the
// content fingerprint computed by the store
func (s *MinIOFileStore) Upload(ctx context.Context, data []byte, suggestedName, contentType string, preventOverwrite bool) (*biz.StoredFile, error) {
	name := suggestedName
	if name == "" {
		name = "file-" + uuid.NewString()
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	if preventOverwrite {
		free, err := s.resolveCollision(ctx, name)
		if err != nil {
			return nil, err
		}
		name = free
	}

	info, err := s.client.PutObject(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	u, err := s.client.PresignedGetURL(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to presign object url: %w", err)
	}

	return &biz.StoredFile{
		Key:  name,
		URL:  u.String(),
		ETag: info.ETag,
	}, nil
}

// resolveCollision appends random suffixes until the name is unused.
// Overwriting would silently redirect every row sharing the old name to
// new content.
func (s *MinIOFileStore) resolveCollision(ctx context.Context, name string) (string, error) {
	for {
		_, err := s.client.StatObject(ctx, name)
		if pkgminio.IsNotFound(err) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat object: %w", err)
		}
		name = name + "-" + uuid.NewString()
	}
}

// DeleteByName removes the named object
func (s *MinIOFileStore) DeleteByName(ctx context.Context, name string) error {
	if _, err := s.client.StatObject(ctx, name); err != nil {
		if pkgminio.IsNotFound(err) {
			return biz.ErrFileNotFound
		}
		return err
	}

	return s.client.RemoveObject(ctx, name)
}

// ETagByName returns the fingerprint of the named object
func (s *MinIOFileStore) ETagByName(ctx context.Context, name string) (string, error) {
	info, err := s.client.StatObject(ctx, name)
	if err != nil {
		if pkgminio.IsNotFound(err) {
			return "", biz.ErrFileNotFound
		}
		return "", err
	}

	return info.ETag, nil
}
