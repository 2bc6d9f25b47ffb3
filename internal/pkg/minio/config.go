package minio

import (
	"errors"
	"time"
)

// Config represents the configuration for the object store client
type Config struct {
	// Endpoint is the S3-compatible object storage endpoint,
	// e.g. "localhost:9000" or "s3.amazonaws.com"
	Endpoint string `mapstructure:"endpoint"`

	// AccessKeyID is the access key for authentication
	AccessKeyID string `mapstructure:"accesskey"`

	// SecretAccessKey is the secret key for authentication
	SecretAccessKey string `mapstructure:"secretkey"`

	// Region is the storage region (optional)
	Region string `mapstructure:"region"`

	// UseSSL determines whether to use HTTPS
	UseSSL bool `mapstructure:"usessl"`

	// Bucket is the bucket holding uploaded files
	Bucket string `mapstructure:"bucket"`

	// PresignExpiry is the lifetime of generated retrieval URLs
	PresignExpiry time.Duration `mapstructure:"presignexpiry"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio: endpoint is required")
	}
	if c.AccessKeyID == "" {
		return errors.New("minio: access key ID is required")
	}
	if c.SecretAccessKey == "" {
		return errors.New("minio: secret access key is required")
	}
	if c.Bucket == "" {
		return errors.New("minio: bucket is required")
	}
	return nil
}

// SetDefaults sets default values for unspecified fields
func (c *Config) SetDefaults() {
	if c.PresignExpiry == 0 {
		c.PresignExpiry = 7 * 24 * time.Hour
	}
}
