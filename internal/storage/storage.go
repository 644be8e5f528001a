// Package storage holds search exports in an S3-compatible object store.
// Objects are streamed in and out; nothing touches local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ExportPrefix is the key prefix shared by every export object.
const ExportPrefix = "exports/"

// NDJSONContentType is the content type of export objects.
const NDJSONContentType = "application/x-ndjson"

// ExportKey returns the object key of the export with the given id.
func ExportKey(id string) string {
	return ExportPrefix + id + ".ndjson"
}

// PutObjectOptions define optional parameters for uploading objects.
// Size is the exact number of bytes when known, or -1 to let the backend
// stream the object in parts.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store.
type Storage interface {
	// Put uploads r under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object's content alongside its info. A missing key
	// yields ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Removing a missing key succeeds.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
