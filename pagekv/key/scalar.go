package key

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// Bytes is a Codec for raw byte slice keys.
type Bytes struct{}

func (Bytes) Encode(k []byte) []byte { return slices.Clone(k) }

func (Bytes) Decode(b []byte) ([]byte, error) { return slices.Clone(b), nil }

// String is a Codec for string keys, encoded as their UTF-8 bytes.
type String struct{}

func (String) Encode(k string) []byte { return []byte(k) }

func (String) Decode(b []byte) (string, error) { return string(b), nil }

type Uint8 struct{}

func (Uint8) Encode(k uint8) []byte { return []byte{k} }

func (Uint8) Decode(b []byte) (uint8, error) {
	if err := checkWidth(b, 1); err != nil {
		return 0, err
	}
	return b[0], nil
}

type Uint16 struct{}

func (Uint16) Encode(k uint16) []byte { return binary.BigEndian.AppendUint16(nil, k) }

func (Uint16) Decode(b []byte) (uint16, error) {
	if err := checkWidth(b, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

type Uint32 struct{}

func (Uint32) Encode(k uint32) []byte { return binary.BigEndian.AppendUint32(nil, k) }

func (Uint32) Decode(b []byte) (uint32, error) {
	if err := checkWidth(b, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

type Uint64 struct{}

func (Uint64) Encode(k uint64) []byte { return binary.BigEndian.AppendUint64(nil, k) }

func (Uint64) Decode(b []byte) (uint64, error) {
	if err := checkWidth(b, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Int64 encodes signed keys big-endian with the sign bit flipped so that
// negative values sort before positive ones.
type Int64 struct{}

const signBit = uint64(1) << 63

func (Int64) Encode(k int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k)^signBit)
}

func (Int64) Decode(b []byte) (int64, error) {
	if err := checkWidth(b, 8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b) ^ signBit), nil
}

func checkWidth(b []byte, width int) error {
	if len(b) != width {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, width, len(b))
	}
	return nil
}
