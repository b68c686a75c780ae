// Package object stores uploaded resume originals. Keys are namespaced by a
// hash of the owning user id so that raw ids never appear in paths.
package object

import (
	"context"
	"io"
)

// Object describes a stored upload.
type Object struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Store saves and reads uploads.
type Store interface {
	Put(ctx context.Context, ownerID, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
