package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression is a stream compression codec.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// ParseCompression returns the codec with the given name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("convert: unknown compression %q", name)
}

// DetectCompression sniffs the codec from the magic bytes of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// Decompress returns data decompressed according to its magic bytes, or
// data itself when it is not compressed.
func Decompress(data []byte) ([]byte, error) {
	switch DetectCompression(data) {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("convert: gzip: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("convert: gzip: %w", err)
		}
		return out, nil

	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("convert: zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("convert: zstd: %w", err)
		}
		return out, nil
	}
	return data, nil
}

// Compress compresses data with codec c.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("convert: gzip: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("convert: gzip: %w", err)
		}
		return buf.Bytes(), nil

	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("convert: zstd: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	}
	return data, nil
}

// CompressedSize returns the zstd-compressed size of data at the default
// level.
func CompressedSize(data []byte) int {
	out, err := Compress(data, CompressionZstd)
	if err != nil {
		return len(data)
	}
	return len(out)
}
