// Package storage abstracts the object store holding media blobs and the
// translation between storage keys and the public URLs persisted on records.
package storage

import (
	"context"
	"io"
	"time"
)

// Object describes a stored blob as seen by List.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Provider abstracts object storage operations.
type Provider interface {
	// Put writes data to storage under the given key with the content type
	// attached as blob metadata.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Open returns a reader for the given storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
	// List returns the objects stored under the given key prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
	// PublicURL returns the long-lived resolvable URL for a storage key.
	PublicURL(key string) string
}
