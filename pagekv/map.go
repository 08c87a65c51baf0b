package pagekv

import (
	"bytes"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/compress"
	"github.com/pagekv/pagekv-go/pagekv/key"
	"github.com/pagekv/pagekv-go/pagekv/store"
)

// MapOptions configures how a Map encodes its values.
type MapOptions struct {
	// Compression is applied to the JSON encoding of every value.
	Compression store.Codec
}

func DefaultMapOptions() MapOptions {
	return MapOptions{
		Compression: store.CodecNone,
	}
}

// Map is a typed view over the entries of one namespace in a store. It
// holds no data itself; every operation takes the store to act on. Values
// are stored as JSON.
//
// Store keys are laid out as the length-prefixed namespace followed by the
// key encoding, so the entries of a Map are contiguous and ordered by the
// byte order of their encoded keys.
type Map[K, V any] struct {
	namespace []byte
	keys      key.Codec[K]
	opts      MapOptions
}

func NewMap[K, V any](namespace string, keys key.Codec[K]) Map[K, V] {
	return NewMapWithOptions[K, V](namespace, keys, DefaultMapOptions())
}

func NewMapWithOptions[K, V any](namespace string, keys key.Codec[K], opts MapOptions) Map[K, V] {
	return Map[K, V]{
		namespace: key.LengthPrefixed([]byte(namespace)),
		keys:      keys,
		opts:      opts,
	}
}

// Save stores v at k, replacing any existing value.
func (m Map[K, V]) Save(s store.Storage, k K, v V) error {
	value, err := m.encodeValue(v)
	if err != nil {
		return err
	}
	raw := m.rawKey(k)
	if err := s.Set(raw, value); err != nil {
		return fmt.Errorf("while saving key %x: %w", raw, err)
	}
	return nil
}

// Load returns the value at k, or ErrKeyNotFound.
func (m Map[K, V]) Load(s store.Reader, k K) (V, error) {
	value, err := m.May(s, k)
	if err != nil {
		var zero V
		return zero, err
	}
	v, ok := value.Get()
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// May returns the value at k if present.
func (m Map[K, V]) May(s store.Reader, k K) (mo.Option[V], error) {
	raw := m.rawKey(k)
	b, err := s.Get(raw)
	if err != nil {
		return mo.None[V](), readErr("get", raw, err)
	}
	data, ok := b.Get()
	if !ok {
		return mo.None[V](), nil
	}
	v, err := m.decodeValue(data)
	if err != nil {
		return mo.None[V](), readErr("decode value", raw, err)
	}
	return mo.Some(v), nil
}

func (m Map[K, V]) Has(s store.Reader, k K) (bool, error) {
	raw := m.rawKey(k)
	b, err := s.Get(raw)
	if err != nil {
		return false, readErr("get", raw, err)
	}
	return b.IsPresent(), nil
}

func (m Map[K, V]) Remove(s store.Storage, k K) error {
	raw := m.rawKey(k)
	if err := s.Remove(raw); err != nil {
		return fmt.Errorf("while removing key %x: %w", raw, err)
	}
	return nil
}

func (m Map[K, V]) rawKey(k K) []byte {
	return append(slices.Clone(m.namespace), m.keys.Encode(k)...)
}

// bounds returns the store range holding the entries strictly after
// startAfter, or every entry of the map when startAfter is absent.
func (m Map[K, V]) bounds(startAfter mo.Option[K]) (start, end []byte) {
	start = m.namespace
	if k, ok := startAfter.Get(); ok {
		start = key.Successor(m.rawKey(k))
	}
	return start, key.PrefixEnd(m.namespace)
}

func (m Map[K, V]) decodeKey(raw []byte) (K, error) {
	var k K
	if !bytes.HasPrefix(raw, m.namespace) {
		return k, fmt.Errorf("%w: key outside of map namespace", key.ErrInvalidKey)
	}
	return m.keys.Decode(raw[len(m.namespace):])
}

func (m Map[K, V]) encodeValue(v V) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("while encoding value: %w", err)
	}
	b, err = compress.Encode(b, m.opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("while compressing value: %w", err)
	}
	return b, nil
}

func (m Map[K, V]) decodeValue(b []byte) (V, error) {
	var v V
	b, err := compress.Decode(b, m.opts.Compression)
	if err != nil {
		return v, fmt.Errorf("while decompressing value: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("while decoding value: %w", err)
	}
	return v, nil
}

// PairMap is a Map keyed by a compound (prefix, suffix) key. Besides
// everything a Map does, it can be paginated one prefix at a time with
// PaginatePrefix.
type PairMap[P, S, V any] struct {
	Map[key.Pair[P, S], V]
	pair key.PairCodec[P, S]
}

func NewPairMap[P, S, V any](namespace string, prefix key.Codec[P], suffix key.Codec[S]) PairMap[P, S, V] {
	return NewPairMapWithOptions[P, S, V](namespace, prefix, suffix, DefaultMapOptions())
}

func NewPairMapWithOptions[P, S, V any](namespace string, prefix key.Codec[P], suffix key.Codec[S], opts MapOptions) PairMap[P, S, V] {
	pair := key.NewPairCodec(prefix, suffix)
	return PairMap[P, S, V]{
		Map:  NewMapWithOptions[key.Pair[P, S], V](namespace, pair, opts),
		pair: pair,
	}
}

func (m PairMap[P, S, V]) prefixBytes(prefix P) []byte {
	return append(slices.Clone(m.namespace), m.pair.EncodePrefix(prefix)...)
}

// prefixBounds returns the store range holding the entries of prefix whose
// suffix sorts strictly after startAfter.
func (m PairMap[P, S, V]) prefixBounds(prefix P, startAfter mo.Option[S]) (start, end []byte) {
	start = m.prefixBytes(prefix)
	end = key.PrefixEnd(start)
	if s, ok := startAfter.Get(); ok {
		start = key.Successor(append(start, m.pair.Suffix.Encode(s)...))
	}
	return start, end
}

func (m PairMap[P, S, V]) decodeSuffix(prefix []byte) func([]byte) (S, error) {
	return func(raw []byte) (S, error) {
		var s S
		if !bytes.HasPrefix(raw, prefix) {
			return s, fmt.Errorf("%w: key outside of prefix", key.ErrInvalidKey)
		}
		return m.pair.Suffix.Decode(raw[len(prefix):])
	}
}
