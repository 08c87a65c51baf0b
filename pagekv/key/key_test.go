package key_test

import (
	"bytes"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekv/pagekv-go/pagekv/key"
)

func TestSuccessor(t *testing.T) {
	assert.Equal(t, []byte{0x00}, key.Successor(nil))
	assert.Equal(t, []byte("abc\x00"), key.Successor([]byte("abc")))

	// nothing sorts between a key and its successor
	k := []byte("user1")
	succ := key.Successor(k)
	assert.Equal(t, 1, bytes.Compare(succ, k))
	assert.Equal(t, -1, bytes.Compare(succ, []byte("user1\x00\x00")))
	assert.Equal(t, -1, bytes.Compare(succ, []byte("user2")))
}

func TestPrefixEnd(t *testing.T) {
	for _, tc := range []struct {
		name     string
		prefix   []byte
		expected []byte
	}{
		{"empty", nil, nil},
		{"simple", []byte("abc"), []byte("abd")},
		{"trailing 0xff", []byte{'a', 0xff, 0xff}, []byte{'b'}},
		{"all 0xff", []byte{0xff, 0xff}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, key.PrefixEnd(tc.prefix))
		})
	}

	prefix := []byte("abc")
	_ = key.PrefixEnd(prefix)
	assert.Equal(t, []byte("abc"), prefix, "input must not be modified")
}

func TestLengthPrefixed(t *testing.T) {
	encoded := key.LengthPrefixed([]byte("ns"), []byte("user1"))
	assert.Equal(t, []byte("\x00\x02ns\x00\x05user1"), encoded)

	part, rest, err := key.SplitLengthPrefixed(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("ns"), part)

	part, rest, err = key.SplitLengthPrefixed(rest)
	require.NoError(t, err)
	assert.Equal(t, []byte("user1"), part)
	assert.Empty(t, rest)

	_, _, err = key.SplitLengthPrefixed([]byte{0x00})
	assert.ErrorIs(t, err, key.ErrInvalidKey)
	_, _, err = key.SplitLengthPrefixed([]byte{0x00, 0x09, 'a'})
	assert.ErrorIs(t, err, key.ErrInvalidKey)

	assert.Panics(t, func() { key.LengthPrefixed(make([]byte, math.MaxUint16+1)) })
}

func TestScalarCodecs(t *testing.T) {
	u8, err := key.Uint8{}.Decode(key.Uint8{}.Encode(200))
	require.NoError(t, err)
	assert.Equal(t, uint8(200), u8)

	u16, err := key.Uint16{}.Decode(key.Uint16{}.Encode(60000))
	require.NoError(t, err)
	assert.Equal(t, uint16(60000), u16)

	u32, err := key.Uint32{}.Decode(key.Uint32{}.Encode(math.MaxUint32))
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)

	u64, err := key.Uint64{}.Decode(key.Uint64{}.Encode(1 << 40))
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	i64, err := key.Int64{}.Decode(key.Int64{}.Encode(-42))
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i64)

	s, err := key.String{}.Decode(key.String{}.Encode("string-007"))
	require.NoError(t, err)
	assert.Equal(t, "string-007", s)

	b, err := key.Bytes{}.Decode(key.Bytes{}.Encode([]byte{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	_, err = key.Uint32{}.Decode([]byte{1, 2})
	assert.ErrorIs(t, err, key.ErrInvalidKey)
	_, err = key.Int64{}.Decode(nil)
	assert.ErrorIs(t, err, key.ErrInvalidKey)
}

func TestIntegerEncodingPreservesOrder(t *testing.T) {
	values := []int64{math.MinInt64, -1000, -1, 0, 1, 255, 256, math.MaxInt64}
	encoded := make([][]byte, len(values))
	for i, v := range values {
		encoded[i] = key.Int64{}.Encode(v)
	}
	assert.True(t, sort.SliceIsSorted(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i], encoded[j]) < 0
	}))

	unsigned := []uint32{0, 1, 255, 256, 65535, 65536, math.MaxUint32}
	for i := 1; i < len(unsigned); i++ {
		assert.Equal(t, -1, bytes.Compare(key.Uint32{}.Encode(unsigned[i-1]), key.Uint32{}.Encode(unsigned[i])))
	}
}

func TestPairCodec(t *testing.T) {
	codec := key.NewPairCodec[string, uint32](key.String{}, key.Uint32{})

	k := key.NewPair("user1", uint32(10))
	decoded, err := codec.Decode(codec.Encode(k))
	require.NoError(t, err)
	assert.Equal(t, k, decoded)

	assert.True(t, bytes.HasPrefix(codec.Encode(k), codec.EncodePrefix("user1")))

	_, err = codec.Decode([]byte{0x00, 0x05, 'u'})
	assert.ErrorIs(t, err, key.ErrInvalidKey)

	_, err = codec.Decode(append(codec.EncodePrefix("user1"), 0x01))
	assert.ErrorIs(t, err, key.ErrInvalidKey)
}

func TestPairPrefixesDoNotInterleave(t *testing.T) {
	codec := key.NewPairCodec[string, string](key.String{}, key.String{})

	// "a" + "zz" must still sort before every key of prefix "ab"
	aEnd := key.PrefixEnd(codec.EncodePrefix("a"))
	assert.Equal(t, -1, bytes.Compare(codec.Encode(key.NewPair("a", "zzzz")), aEnd))
	assert.Equal(t, 1, bytes.Compare(codec.Encode(key.NewPair("ab", "")), aEnd))
	assert.False(t, bytes.HasPrefix(codec.Encode(key.NewPair("ab", "x")), codec.EncodePrefix("a")))

	// nested pairs decode through both levels
	nested := key.NewPairCodec[string, key.Pair[uint8, string]](key.String{},
		key.NewPairCodec[uint8, string](key.Uint8{}, key.String{}))
	k := key.NewPair("owner", key.NewPair(uint8(3), "token"))
	decoded, err := nested.Decode(nested.Encode(k))
	require.NoError(t, err)
	assert.Equal(t, k, decoded)
}
