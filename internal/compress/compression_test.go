package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodecs = []Codec{CodecNone, CodecSnappy, CodecZlib, CodecLz4, CodecZstd}

func TestEncodeDecode(t *testing.T) {
	testCases := []struct {
		name   string
		codec  Codec
		input  []byte
		errMsg string
	}{
		{"None", CodecNone, []byte(`{"owner":"user1"}`), ""},
		{"Snappy", CodecSnappy, []byte(`{"owner":"user2"}`), ""},
		{"Zlib", CodecZlib, []byte(`{"owner":"user3"}`), ""},
		{"LZ4", CodecLz4, []byte(`{"owner":"user4"}`), ""},
		{"Zstd", CodecZstd, []byte(`{"owner":"user5"}`), ""},
		{"Invalid Codec", Codec(99), []byte("invalid"), "invalid compression codec"},
		{"Large Input", CodecZstd, bytes.Repeat([]byte(`{"balance":100}`), 1000), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := Encode(tc.input, tc.codec)
			if tc.errMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)

			decompressed, err := Decode(compressed, tc.codec)
			require.NoError(t, err)
			assert.Equal(t, tc.input, decompressed)
		})
	}
}

func TestDecodeMismatchedCodec(t *testing.T) {
	compressed, err := Encode([]byte("mismatched codec"), CodecSnappy)
	require.NoError(t, err)

	_, err = Decode(compressed, CodecZlib)
	assert.Error(t, err)
}

func TestDecodeInvalidInput(t *testing.T) {
	for _, codec := range allCodecs[1:] {
		t.Run(codec.String(), func(t *testing.T) {
			_, err := Decode([]byte("this is not compressed data"), codec)
			assert.Error(t, err)
		})
	}
}

func TestParseCodec(t *testing.T) {
	for _, codec := range allCodecs {
		parsed, err := ParseCodec(codec.String())
		require.NoError(t, err)
		assert.Equal(t, codec, parsed)
		assert.True(t, parsed.Valid())
	}

	parsed, err := ParseCodec(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, CodecZstd, parsed)

	parsed, err = ParseCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecNone, parsed)

	_, err = ParseCodec("brotli")
	assert.ErrorIs(t, err, ErrInvalidCodec)
	assert.False(t, Codec(42).Valid())
	assert.Equal(t, "unknown", Codec(42).String())
}
