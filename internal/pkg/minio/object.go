package minio

import (
	"context"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// UploadInfo represents information about an uploaded object
type UploadInfo struct {
	Bucket string
	Key    string
	ETag   string
	Size   int64
}

// ObjectInfo represents object metadata
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// PutObject uploads an object into the configured bucket
func (c *Client) PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (UploadInfo, error) {
	if objectName == "" {
		return UploadInfo{}, wrapError("PutObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	info, err := c.client.PutObject(ctx, c.config.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return UploadInfo{}, wrapError("PutObject", err, c.config.Bucket, objectName)
	}

	if c.logger != nil {
		c.logger.Info("object uploaded",
			zap.String("bucket", c.config.Bucket),
			zap.String("object", objectName),
			zap.Int64("size", info.Size),
			zap.String("etag", info.ETag),
		)
	}

	return UploadInfo{
		Bucket: info.Bucket,
		Key:    info.Key,
		ETag:   info.ETag,
		Size:   info.Size,
	}, nil
}

// GetObject streams an object from the configured bucket
func (c *Client) GetObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if objectName == "" {
		return nil, wrapError("GetObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	obj, err := c.client.GetObject(ctx, c.config.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapError("GetObject", err, c.config.Bucket, objectName)
	}

	return obj, nil
}

// StatObject returns object metadata. The wrapped error satisfies
// IsNotFound when the object does not exist.
func (c *Client) StatObject(ctx context.Context, objectName string) (ObjectInfo, error) {
	if objectName == "" {
		return ObjectInfo{}, wrapError("StatObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	info, err := c.client.StatObject(ctx, c.config.Bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, wrapError("StatObject", err, c.config.Bucket, objectName)
	}

	return ObjectInfo{
		Key:         info.Key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: info.ContentType,
	}, nil
}

// RemoveObject removes an object from the configured bucket
func (c *Client) RemoveObject(ctx context.Context, objectName string) error {
	if objectName == "" {
		return wrapError("RemoveObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	if err := c.client.RemoveObject(ctx, c.config.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return wrapError("RemoveObject", err, c.config.Bucket, objectName)
	}

	if c.logger != nil {
		c.logger.Info("object removed",
			zap.String("bucket", c.config.Bucket),
			zap.String("object", objectName),
		)
	}

	return nil
}

// PresignedGetURL generates a presigned retrieval URL for an object
func (c *Client) PresignedGetURL(ctx context.Context, objectName string) (*url.URL, error) {
	if objectName == "" {
		return nil, wrapError("PresignedGetURL", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	u, err := c.client.PresignedGetObject(ctx, c.config.Bucket, objectName, c.config.PresignExpiry, nil)
	if err != nil {
		return nil, wrapError("PresignedGetURL", err, c.config.Bucket, objectName)
	}

	return u, nil
}
