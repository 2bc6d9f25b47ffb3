package minio

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrObjectNotFound indicates that the object does not exist
	ErrObjectNotFound = errors.New("minio: object not found")

	// ErrInvalidArgument indicates that an argument is invalid
	ErrInvalidArgument = errors.New("minio: invalid argument")
)

// Error carries the failed operation and object context
type Error struct {
	Op     string
	Err    error
	Bucket string
	Object string
}

func (e *Error) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("minio: %s failed for bucket=%s, object=%s: %v", e.Op, e.Bucket, e.Object, e.Err)
	}
	return fmt.Sprintf("minio: %s failed for bucket=%s: %v", e.Op, e.Bucket, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the object or bucket is absent
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrObjectNotFound) {
		return true
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchBucket" ||
			resp.Code == "NoSuchKey" ||
			resp.Code == "NoSuchUpload"
	}

	return false
}

func wrapError(op string, err error, bucket, object string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Op:     op,
		Err:    err,
		Bucket: bucket,
		Object: object,
	}
}
