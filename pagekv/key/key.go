// Package key provides order-preserving byte encodings for map keys.
//
// Stores order entries by comparing encoded keys byte by byte, so every
// Codec in this package encodes values such that the byte order of the
// encodings matches the natural order of the values. Compound keys are
// built with PairCodec, which length-prefixes the leading component so all
// keys sharing a prefix form one contiguous range.
package key

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/pagekv/pagekv-go/internal/assert"
)

var ErrInvalidKey = errors.New("invalid key encoding")

// Codec converts between a key value and its order-preserving encoding.
type Codec[K any] interface {
	Encode(K) []byte
	Decode([]byte) (K, error)
}

// Successor returns the smallest byte string strictly greater than b.
// Starting a range at Successor(b) begins iterating strictly after b.
func Successor(b []byte) []byte {
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// PrefixEnd returns the smallest byte string greater than every string
// that starts with prefix, suitable as an exclusive upper bound. It returns
// nil (unbounded) when no such string exists, which is the case for an
// empty prefix or a prefix made only of 0xff bytes.
func PrefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// LengthPrefixed encodes each part as a big-endian uint16 length followed
// by the part itself and concatenates the results. It is used for map
// namespaces and compound key prefixes.
func LengthPrefixed(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += 2 + len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		assert.True(len(p) <= math.MaxUint16, "key part of %d bytes exceeds %d", len(p), math.MaxUint16)
		out = binary.BigEndian.AppendUint16(out, uint16(len(p)))
		out = append(out, p...)
	}
	return out
}

// SplitLengthPrefixed reads one length-prefixed part from the front of b
// and returns it along with the remaining bytes.
func SplitLengthPrefixed(b []byte) (part []byte, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, fmt.Errorf("%w: missing length prefix", ErrInvalidKey)
	}
	n := int(binary.BigEndian.Uint16(b))
	if len(b)-2 < n {
		return nil, nil, fmt.Errorf("%w: length prefix %d exceeds remaining %d bytes", ErrInvalidKey, n, len(b)-2)
	}
	return b[2 : 2+n], b[2+n:], nil
}
