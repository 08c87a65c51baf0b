package pagekv

import (
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/iter"
	"github.com/pagekv/pagekv-go/pagekv/store"
)

// Page requests one page of a Map. The zero value requests the first page
// with the ceiling of L as its limit.
type Page[L Limit, K any] struct {
	// StartAfter is the exclusive lower bound, usually the Next cursor of the
	// previous page.
	StartAfter mo.Option[K] `json:"start_after"`
	// Limit is the requested page size. It is capped at L.MaxLimit().
	Limit mo.Option[uint32] `json:"limit"`
}

// EffectiveLimit returns the number of entries the page may hold.
func (p Page[L, K]) EffectiveLimit() uint32 {
	return effectiveLimit[L](p.Limit)
}

// Entry is one key and its projected value.
type Entry[K, R any] struct {
	Key   K `json:"key"`
	Value R `json:"value"`
}

// NextPage is the result of a pagination call.
type NextPage[K, R any] struct {
	// Entries are in ascending key order.
	Entries []Entry[K, R] `json:"entries"`
	// Next is the key to pass as StartAfter to fetch the following page. It
	// is absent when no entries remain after this page, and also for a page
	// of limit zero requested without a cursor, which has no key to resume
	// from. Check More to tell the two apart.
	Next mo.Option[K] `json:"next"`
	// Qty is len(Entries).
	Qty int `json:"qty"`
	// More reports whether entries remain after this page. It differs from
	// Next.IsPresent() only for a page of limit zero requested without a
	// cursor, where there is no key to resume from.
	More bool `json:"more"`
}

// Paginate returns the entries of m strictly after p.StartAfter, at most
// p.EffectiveLimit() of them, with each value projected through fn.
func Paginate[L Limit, K, V, R any](s store.Reader, p Page[L, K], m Map[K, V], fn func(K, V) R) (NextPage[K, R], error) {
	start, end := m.bounds(p.StartAfter)
	return collect(s, span[K, V]{
		start:       start,
		end:         end,
		limit:       p.EffectiveLimit(),
		startAfter:  p.StartAfter,
		decodeKey:   m.decodeKey,
		decodeValue: m.decodeValue,
	}, fn)
}

// Keys returns the keys of m strictly after p.StartAfter, at most
// p.EffectiveLimit() of them. Values are not read.
func Keys[L Limit, K, V any](s store.Reader, p Page[L, K], m Map[K, V]) ([]K, error) {
	start, end := m.bounds(p.StartAfter)
	return collectKeys(s, start, end, p.EffectiveLimit(), m.decodeKey)
}

// span is one bounded read of the store and how to decode what it holds.
type span[K, V any] struct {
	// start is inclusive and end exclusive
	start, end  []byte
	limit       uint32
	startAfter  mo.Option[K]
	decodeKey   func([]byte) (K, error)
	decodeValue func([]byte) (V, error)
}

// collect reads up to limit+1 entries of the span. The extra entry is never
// decoded; its presence only proves more entries remain.
func collect[K, V, R any](s store.Reader, sp span[K, V], fn func(K, V) R) (NextPage[K, R], error) {
	it, err := s.Range(sp.start, sp.end)
	if err != nil {
		return NextPage[K, R]{}, readErr("range", sp.start, err)
	}
	it = iter.Take(it, uint64(sp.limit)+1)

	page := NextPage[K, R]{
		Entries: make([]Entry[K, R], 0, min(sp.limit, 64)),
	}
	for {
		next, err := it.Next()
		if err != nil {
			return NextPage[K, R]{}, readErr("next", nil, err)
		}
		kv, ok := next.Get()
		if !ok {
			break
		}
		if uint64(len(page.Entries)) == uint64(sp.limit) {
			page.More = true
			break
		}

		k, err := sp.decodeKey(kv.Key)
		if err != nil {
			return NextPage[K, R]{}, readErr("decode key", kv.Key, err)
		}
		v, err := sp.decodeValue(kv.Value)
		if err != nil {
			return NextPage[K, R]{}, readErr("decode value", kv.Key, err)
		}
		page.Entries = append(page.Entries, Entry[K, R]{Key: k, Value: fn(k, v)})
	}

	page.Qty = len(page.Entries)
	if page.More {
		if page.Qty > 0 {
			page.Next = mo.Some(page.Entries[page.Qty-1].Key)
		} else {
			// limit zero: resuming from the same cursor is the same request
			page.Next = sp.startAfter
		}
	}
	return page, nil
}

func collectKeys[K any](s store.Reader, start, end []byte, limit uint32, decodeKey func([]byte) (K, error)) ([]K, error) {
	it, err := s.Range(start, end)
	if err != nil {
		return nil, readErr("range", start, err)
	}
	it = iter.Take(it, uint64(limit))

	keys := make([]K, 0, min(limit, 64))
	for {
		next, err := it.Next()
		if err != nil {
			return nil, readErr("next", nil, err)
		}
		kv, ok := next.Get()
		if !ok {
			return keys, nil
		}
		k, err := decodeKey(kv.Key)
		if err != nil {
			return nil, readErr("decode key", kv.Key, err)
		}
		keys = append(keys, k)
	}
}
