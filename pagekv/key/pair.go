package key

import "fmt"

// Pair is a compound key made of a leading Prefix and a trailing Suffix.
type Pair[P, S any] struct {
	Prefix P `json:"prefix"`
	Suffix S `json:"suffix"`
}

func NewPair[P, S any](prefix P, suffix S) Pair[P, S] {
	return Pair[P, S]{Prefix: prefix, Suffix: suffix}
}

// PairCodec encodes a Pair as the length-prefixed prefix encoding followed
// by the raw suffix encoding. Keys sharing a prefix are therefore adjacent
// and ordered by suffix; distinct prefixes never interleave.
type PairCodec[P, S any] struct {
	Prefix Codec[P]
	Suffix Codec[S]
}

func NewPairCodec[P, S any](prefix Codec[P], suffix Codec[S]) PairCodec[P, S] {
	return PairCodec[P, S]{Prefix: prefix, Suffix: suffix}
}

// EncodePrefix returns the bytes every key with the given prefix starts with.
func (c PairCodec[P, S]) EncodePrefix(prefix P) []byte {
	return LengthPrefixed(c.Prefix.Encode(prefix))
}

func (c PairCodec[P, S]) Encode(k Pair[P, S]) []byte {
	return append(c.EncodePrefix(k.Prefix), c.Suffix.Encode(k.Suffix)...)
}

func (c PairCodec[P, S]) Decode(b []byte) (Pair[P, S], error) {
	var k Pair[P, S]
	prefix, suffix, err := SplitLengthPrefixed(b)
	if err != nil {
		return k, err
	}
	if k.Prefix, err = c.Prefix.Decode(prefix); err != nil {
		return k, fmt.Errorf("decode pair prefix: %w", err)
	}
	if k.Suffix, err = c.Suffix.Decode(suffix); err != nil {
		return k, fmt.Errorf("decode pair suffix: %w", err)
	}
	return k, nil
}
