package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/kapetan-io/tackle/set"
	"github.com/oklog/ulid/v2"
	"github.com/samber/mo"
	"github.com/thanos-io/objstore"

	"github.com/pagekv/pagekv-go/internal/compress"
	"github.com/pagekv/pagekv-go/internal/types"
)

const (
	snapshotDir     = "snapshots"
	snapshotExt     = ".snap"
	snapshotVersion = byte(1)

	// version, codec, crc32
	snapshotHeaderLen = 1 + 1 + 4
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

// Snapshots writes the full contents of a store to an object bucket and
// reads them back. Every snapshot is an immutable object named by a ULID,
// so the lexical order of names is the order they were taken in.
type Snapshots struct {
	bucket objstore.Bucket
	opts   SnapshotOptions
}

func NewSnapshots(bucket objstore.Bucket, opts SnapshotOptions) *Snapshots {
	set.Default(&opts.Log, slog.Default())
	return &Snapshots{
		bucket: bucket,
		opts:   opts,
	}
}

// Save writes every entry in src to a new snapshot and returns its id.
func (s *Snapshots) Save(ctx context.Context, src Reader) (ulid.ULID, error) {
	if !s.opts.Codec.Valid() {
		return ulid.ULID{}, compress.ErrInvalidCodec
	}

	it, err := src.Range(nil, nil)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("while opening range for snapshot: %w", err)
	}

	var records []byte
	count := 0
	for {
		next, err := it.Next()
		if err != nil {
			return ulid.ULID{}, fmt.Errorf("while reading entry %d for snapshot: %w", count, err)
		}
		kv, ok := next.Get()
		if !ok {
			break
		}
		records = appendRecord(records, kv)
		count++
	}

	payload, err := compress.Encode(records, s.opts.Codec)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("while compressing snapshot: %w", err)
	}

	data := make([]byte, 0, snapshotHeaderLen+len(payload))
	data = append(data, snapshotVersion, byte(s.opts.Codec))
	data = binary.BigEndian.AppendUint32(data, crc32.ChecksumIEEE(payload))
	data = append(data, payload...)

	id := ulid.Make()
	if err := s.bucket.Upload(ctx, s.objectPath(id), bytes.NewReader(data)); err != nil {
		return ulid.ULID{}, fmt.Errorf("during bucket upload: %w", err)
	}

	s.opts.Log.Info("saved snapshot",
		"id", id.String(),
		"entries", count,
		"bytes", len(data),
		"codec", s.opts.Codec.String())
	return id, nil
}

// Load reads the snapshot id into a new Memory store.
func (s *Snapshots) Load(ctx context.Context, id ulid.ULID) (*Memory, error) {
	mem := NewMemory()
	if _, err := s.LoadInto(ctx, id, mem); err != nil {
		return nil, err
	}
	return mem, nil
}

// LoadInto writes every entry of snapshot id into dst and returns the number
// of entries written. Existing entries in dst with other keys are kept.
func (s *Snapshots) LoadInto(ctx context.Context, id ulid.ULID, dst Storage) (int, error) {
	data, err := s.read(ctx, id)
	if err != nil {
		return 0, err
	}

	if len(data) < snapshotHeaderLen {
		return 0, fmt.Errorf("%w: %d byte object is shorter than the header", ErrInvalidSnapshot, len(data))
	}
	if data[0] != snapshotVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, data[0])
	}
	codec := compress.Codec(data[1])
	checksum := binary.BigEndian.Uint32(data[2:6])
	payload := data[snapshotHeaderLen:]
	if crc32.ChecksumIEEE(payload) != checksum {
		return 0, fmt.Errorf("%w: snapshot %s", ErrChecksumMismatch, id)
	}

	records, err := compress.Decode(payload, codec)
	if err != nil {
		return 0, fmt.Errorf("while decompressing snapshot %s: %w", id, err)
	}

	count := 0
	for len(records) > 0 {
		var kv types.KeyValue
		kv, records, err = readRecord(records)
		if err != nil {
			return count, fmt.Errorf("%w: record %d: %w", ErrInvalidSnapshot, count, err)
		}
		if err := dst.Set(kv.Key, kv.Value); err != nil {
			return count, fmt.Errorf("while restoring record %d: %w", count, err)
		}
		count++
	}

	s.opts.Log.Info("loaded snapshot", "id", id.String(), "entries", count)
	return count, nil
}

// List returns the ids of every snapshot in the bucket, oldest first.
// Objects in the snapshot directory that are not snapshots are skipped
// and logged.
func (s *Snapshots) List(ctx context.Context) ([]ulid.ULID, error) {
	var ids []ulid.ULID
	var warn types.ErrWarn

	err := s.bucket.Iter(ctx, s.dirPath(), func(name string) error {
		base := path.Base(name)
		if !strings.HasSuffix(base, snapshotExt) {
			warn.Add("skipped non-snapshot object %q", name)
			return nil
		}
		id, err := ulid.Parse(strings.TrimSuffix(base, snapshotExt))
		if err != nil {
			warn.Add("skipped snapshot with invalid id %q: %s", name, err)
			return nil
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("during bucket listing: %w", err)
	}
	if err := warn.If(); err != nil {
		s.opts.Log.Warn("skipped objects while listing snapshots",
			"skipped", warn.Len(),
			"listed", len(ids),
			"warnings", err.Error())
	}

	slices.SortFunc(ids, func(a, b ulid.ULID) int { return a.Compare(b) })
	return ids, nil
}

// Latest returns the id of the most recent snapshot, if any exist.
func (s *Snapshots) Latest(ctx context.Context) (mo.Option[ulid.ULID], error) {
	ids, err := s.List(ctx)
	if err != nil {
		return mo.None[ulid.ULID](), err
	}
	if len(ids) == 0 {
		return mo.None[ulid.ULID](), nil
	}
	return mo.Some(ids[len(ids)-1]), nil
}

func (s *Snapshots) read(ctx context.Context, id ulid.ULID) ([]byte, error) {
	reader, err := s.bucket.Get(ctx, s.objectPath(id))
	if err != nil {
		if s.bucket.IsObjNotFoundErr(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("during bucket get: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("while reading snapshot from bucket: %w", err)
	}
	return data, nil
}

func (s *Snapshots) dirPath() string {
	return path.Join(s.opts.RootPath, snapshotDir) + objstore.DirDelim
}

func (s *Snapshots) objectPath(id ulid.ULID) string {
	return path.Join(s.opts.RootPath, snapshotDir, id.String()+snapshotExt)
}

func appendRecord(buf []byte, kv types.KeyValue) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(kv.Key)))
	buf = append(buf, kv.Key...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(kv.Value)))
	return append(buf, kv.Value...)
}

func readRecord(buf []byte) (types.KeyValue, []byte, error) {
	key, buf, err := readField(buf)
	if err != nil {
		return types.KeyValue{}, nil, fmt.Errorf("key: %w", err)
	}
	value, buf, err := readField(buf)
	if err != nil {
		return types.KeyValue{}, nil, fmt.Errorf("value: %w", err)
	}
	return types.KeyValue{Key: key, Value: value}, buf, nil
}

func readField(buf []byte) ([]byte, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	n := binary.BigEndian.Uint32(buf)
	buf = buf[4:]
	if uint64(len(buf)) < uint64(n) {
		return nil, nil, io.ErrUnexpectedEOF
	}
	return buf[:n], buf[n:], nil
}
