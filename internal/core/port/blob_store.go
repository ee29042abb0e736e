package port

import (
	"context"
	"io"
)

// BlobStore accepts an upload and returns a stable reference to it. The core
// treats the returned value as opaque and only ever stores it verbatim.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
