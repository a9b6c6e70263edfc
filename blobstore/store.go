package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore gives read access to a tree of immutable event files.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// List returns the names of all blobs below prefix in lexical order.
	// Names are slash-separated and relative to the store root.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableStore is a BlobStore that can also store whole blobs.
type WritableStore interface {
	BlobStore

	// Put writes a blob atomically, replacing any existing blob of that name.
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	io.Closer
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// FullReader is an optional interface for Blobs that can fetch their whole
// content more efficiently than through ReadAt.
type FullReader interface {
	ReadAll(ctx context.Context) ([]byte, error)
}

// readChunk bounds a single ReadAt in ReadAll.
const readChunk = 8 << 20

// ReadAll returns a copy of the complete content of b.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if fr, ok := b.(FullReader); ok {
		return fr.ReadAll(ctx)
	}
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}

	size := b.Size()
	out := make([]byte, size)
	for off := int64(0); off < size; {
		end := min(off+readChunk, size)
		n, err := b.ReadAt(ctx, out[off:end], off)
		off += int64(n)
		if err != nil && (err != io.EOF || off < end) {
			return nil, fmt.Errorf("read at %d: %w", off, err)
		}
	}
	return out, nil
}

// NewReader returns a sequential reader over b. Every Read is a ReadAt
// bound to ctx, so callers can pace or cancel a remote download as it
// proceeds.
func NewReader(ctx context.Context, b Blob) *io.SectionReader {
	return io.NewSectionReader(readerAt{ctx: ctx, b: b}, 0, b.Size())
}

type readerAt struct {
	ctx context.Context
	b   Blob
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.b.ReadAt(r.ctx, p, off)
}
