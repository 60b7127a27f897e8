package storage

import (
	"context"
	"io"
	"time"
)

// PutInput carries one object write: the bytes plus the content
// settings and metadata attached to the object at write time.
type PutInput struct {
	Key                string
	ContentType        string
	ContentDisposition string
	CacheControl       string
	Metadata           map[string]string
	Body               io.Reader
}

// ObjectInfo is the store-side view of one object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	Metadata     map[string]string
	LastModified time.Time
}

// ObjectStore is the object-store capability the rest of the service is
// written against. Implementations: S3Store (S3/MinIO), MemStore.
//
// A missing object surfaces as media.ErrNotFound from Stat/Get/GetRange;
// every other error is an infrastructure failure.
type ObjectStore interface {
	Put(ctx context.Context, in PutInput) error
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Get streams the whole object. Caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// GetRange streams the inclusive byte range [start, end].
	GetRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// List enumerates every object with its metadata. Used for offline
	// index rebuilds; never on the request path.
	List(ctx context.Context) ([]ObjectInfo, error)
}
