// Package storage persists file blob bytes. Records live in the database;
// bytes live in one of the backends below, keyed by the file's storage
// name.
package storage

import "context"

type BlobStore interface {
	// Put moves the bytes at srcPath into the store under name.
	Put(ctx context.Context, name, srcPath string) error
	Get(ctx context.Context, name string) ([]byte, error)
}
