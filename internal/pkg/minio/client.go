package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Client wraps the MinIO client together with the configured bucket
type Client struct {
	client *minio.Client
	config *Config
	logger *zap.Logger
}

// NewClient creates a new object store client
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	}
	if cfg.Region != "" {
		opts.Region = cfg.Region
	}

	mc, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, wrapError("NewClient", err, cfg.Bucket, "")
	}

	if logger != nil {
		logger.Info("minio client initialized",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("bucket", cfg.Bucket),
			zap.Bool("use_ssl", cfg.UseSSL),
		)
	}

	return &Client{
		client: mc,
		config: cfg,
		logger: logger,
	}, nil
}

// Bucket returns the configured bucket name
func (c *Client) Bucket() string {
	return c.config.Bucket
}

// EnsureBucket creates the configured bucket when it does not exist yet
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return wrapError("EnsureBucket", err, c.config.Bucket, "")
	}

	if exists {
		return nil
	}

	opts := minio.MakeBucketOptions{Region: c.config.Region}
	if err := c.client.MakeBucket(ctx, c.config.Bucket, opts); err != nil {
		return wrapError("EnsureBucket", err, c.config.Bucket, "")
	}

	if c.logger != nil {
		c.logger.Info("bucket created", zap.String("bucket", c.config.Bucket))
	}

	return nil
}

// Ping verifies connectivity by checking the configured bucket
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return wrapError("Ping", err, c.config.Bucket, "")
	}
	return nil
}
