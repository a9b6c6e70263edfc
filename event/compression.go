package event

import (
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how an event file is compressed.
type Compression uint8

const (
	// CompressionNone indicates a plain JSON-lines file.
	CompressionNone Compression = iota
	// CompressionZSTD indicates a zstd stream (".zst").
	CompressionZSTD
	// CompressionLZ4 indicates an lz4 frame stream (".lz4").
	CompressionLZ4
)

// Extension is the base suffix of an event file.
const Extension = ".jsonl"

func (c Compression) String() string {
	switch c {
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Suffix returns the file name suffix for files compressed with c.
func (c Compression) Suffix() string {
	switch c {
	case CompressionZSTD:
		return Extension + ".zst"
	case CompressionLZ4:
		return Extension + ".lz4"
	default:
		return Extension
	}
}

// ParseCompression maps a name as printed by String back to a Compression.
func ParseCompression(name string) (Compression, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd", "zst":
		return CompressionZSTD, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return CompressionNone, false
	}
}

// DetectCompression reports the compression of an event file from its name.
// The second return value is false when name is not an event file.
func DetectCompression(name string) (Compression, bool) {
	switch {
	case strings.HasSuffix(name, Extension+".zst"):
		return CompressionZSTD, true
	case strings.HasSuffix(name, Extension+".lz4"):
		return CompressionLZ4, true
	case strings.HasSuffix(name, Extension):
		return CompressionNone, true
	default:
		return CompressionNone, false
	}
}

var zstdDecoderPool sync.Pool

func getZstdDecoder(r io.Reader) (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		dec := v.(*zstd.Decoder)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return dec, nil
	}
	return zstd.NewReader(r)
}

type zstdReader struct {
	*zstd.Decoder
}

func (z zstdReader) Close() error {
	// Detach from the source so the pooled decoder does not pin it.
	if err := z.Reset(nil); err != nil {
		z.Decoder.Close()
		return nil
	}
	zstdDecoderPool.Put(z.Decoder)
	return nil
}

// NewReader wraps r with the decompressor for c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionZSTD:
		dec, err := getZstdDecoder(r)
		if err != nil {
			return nil, err
		}
		return zstdReader{dec}, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with the compressor for c. Close must be called to flush
// the compressed stream; it does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}
