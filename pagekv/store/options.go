package store

import (
	"log/slog"

	"github.com/pagekv/pagekv-go/internal/compress"
)

// MemoryOptions configures a Memory store.
type MemoryOptions struct {
	// BatchSize is the number of entries a range iterator copies out of the
	// table each time it needs more entries.
	BatchSize int
}

func DefaultMemoryOptions() MemoryOptions {
	return MemoryOptions{
		BatchSize: 64,
	}
}

// CacheOptions configures a Cached store.
type CacheOptions struct {
	// Capacity is the maximum number of Get results held by the cache.
	Capacity int
	Log      *slog.Logger
}

func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		Capacity: 1000,
		Log:      slog.Default(),
	}
}

// SnapshotOptions configures where and how snapshots are written.
type SnapshotOptions struct {
	// RootPath is the bucket directory snapshots are written under.
	RootPath string
	// Codec compresses the snapshot payload.
	Codec compress.Codec
	Log   *slog.Logger
}

func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		RootPath: "",
		Codec:    compress.CodecSnappy,
		Log:      slog.Default(),
	}
}

// Codec selects the compression applied to snapshot payloads and map values.
type Codec = compress.Codec

const (
	CodecNone   = compress.CodecNone
	CodecSnappy = compress.CodecSnappy
	CodecZlib   = compress.CodecZlib
	CodecLz4    = compress.CodecLz4
	CodecZstd   = compress.CodecZstd
)

var ErrInvalidCodec = compress.ErrInvalidCodec

// ParseCodec parses a codec name such as "snappy" or "zstd".
func ParseCodec(name string) (Codec, error) {
	return compress.ParseCodec(name)
}
