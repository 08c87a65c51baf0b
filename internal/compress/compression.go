package compress

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies how a stored value or snapshot payload is compressed.
// The numeric value is persisted, so existing values must never change.
type Codec int8

const (
	CodecNone Codec = iota
	CodecSnappy
	CodecZlib
	CodecLz4
	CodecZstd
)

var ErrInvalidCodec = errors.New("invalid compression codec")

var codecNames = map[Codec]string{
	CodecNone:   "none",
	CodecSnappy: "snappy",
	CodecZlib:   "zlib",
	CodecLz4:    "lz4",
	CodecZstd:   "zstd",
}

// String converts Codec to its configuration name
func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is a known codec
func (c Codec) Valid() bool {
	_, ok := codecNames[c]
	return ok
}

// ParseCodec parses the configuration name of a codec, case-insensitively.
// The empty string selects CodecNone.
func ParseCodec(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CodecNone, nil
	}
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return CodecNone, fmt.Errorf("%w: %q", ErrInvalidCodec, name)
}

// Encode compresses buf with codec. CodecNone returns buf unchanged.
func Encode(buf []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return buf, nil
	case CodecSnappy:
		return snappy.Encode(nil, buf), nil
	case CodecZlib:
		var b bytes.Buffer
		return writeAll(&b, zlib.NewWriter(&b), buf)
	case CodecLz4:
		var b bytes.Buffer
		return writeAll(&b, lz4.NewWriter(&b), buf)
	case CodecZstd:
		var b bytes.Buffer
		w, err := zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
		return writeAll(&b, w, buf)
	default:
		return nil, ErrInvalidCodec
	}
}

// Decode decompresses buf according to codec
func Decode(buf []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return buf, nil
	case CodecSnappy:
		return snappy.Decode(nil, buf)
	case CodecZlib:
		r, err := zlib.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return io.ReadAll(r)
	case CodecLz4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(buf)))
	case CodecZstd:
		r, err := zstd.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, ErrInvalidCodec
	}
}

// writeAll writes buf through w, closes it to flush any trailer and
// returns the bytes collected in out.
func writeAll(out *bytes.Buffer, w io.WriteCloser, buf []byte) ([]byte, error) {
	if _, err := w.Write(buf); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
