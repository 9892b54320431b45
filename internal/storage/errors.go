package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorCategory distinguishes the ways a blob-store call can fail. B2 does
// not always return structured codes through the S3 compatibility layer, so
// classification falls back to message patterns.
type ErrorCategory string

const (
	CategoryCredentials    ErrorCategory = "credentials"
	CategoryBucketNotFound ErrorCategory = "bucket_not_found"
	CategoryTimeout        ErrorCategory = "timeout"
	CategoryNetwork        ErrorCategory = "network"
	CategoryUnknown        ErrorCategory = "unknown"
)

// StorageError wraps a blob-store failure with the operation, the key
// involved and its category
type StorageError struct {
	Op       string
	Key      string
	Category ErrorCategory
	Err      error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s (%s): %v", e.Op, e.Key, e.Category, e.Err)
	}
	return fmt.Sprintf("storage %s (%s): %v", e.Op, e.Category, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Classify wraps err as a StorageError with its category resolved
func Classify(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Category: categoryOf(err), Err: err}
}

// CategoryOf returns the category of err, or CategoryUnknown when err is not
// a StorageError
func CategoryOf(err error) ErrorCategory {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryUnknown
}

func categoryOf(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "AccessDenied", "Unauthorized", "UnauthorizedAccess":
			return CategoryCredentials
		case "NoSuchBucket":
			return CategoryBucketNotFound
		case "RequestTimeout":
			return CategoryTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}

	// Message patterns as last resort
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "credential"), strings.Contains(msg, "access key"):
		return CategoryCredentials
	case strings.Contains(msg, "bucket"):
		return CategoryBucketNotFound
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return CategoryTimeout
	case strings.Contains(msg, "connection"), strings.Contains(msg, "no such host"):
		return CategoryNetwork
	}

	return CategoryUnknown
}
