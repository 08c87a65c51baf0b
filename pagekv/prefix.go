package pagekv

import (
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/pagekv/store"
)

// PrefixPage requests one page of the entries of a PairMap whose key has the
// given prefix. Cursors and returned keys are suffixes only.
type PrefixPage[L Limit, P, S any] struct {
	Prefix     P                 `json:"prefix"`
	StartAfter mo.Option[S]      `json:"start_after"`
	Limit      mo.Option[uint32] `json:"limit"`
}

// EffectiveLimit returns the number of entries the page may hold.
func (p PrefixPage[L, P, S]) EffectiveLimit() uint32 {
	return effectiveLimit[L](p.Limit)
}

// PaginatePrefix returns the entries of m under p.Prefix whose suffix sorts
// strictly after p.StartAfter, at most p.EffectiveLimit() of them. Entries of
// other prefixes are never read, and a cursor past the last suffix of the
// prefix yields an empty page.
func PaginatePrefix[L Limit, P, S, V, R any](s store.Reader, p PrefixPage[L, P, S], m PairMap[P, S, V], fn func(S, V) R) (NextPage[S, R], error) {
	start, end := m.prefixBounds(p.Prefix, p.StartAfter)
	return collect(s, span[S, V]{
		start:       start,
		end:         end,
		limit:       p.EffectiveLimit(),
		startAfter:  p.StartAfter,
		decodeKey:   m.decodeSuffix(m.prefixBytes(p.Prefix)),
		decodeValue: m.decodeValue,
	}, fn)
}

// PrefixKeys returns the suffixes under p.Prefix strictly after p.StartAfter,
// at most p.EffectiveLimit() of them.
func PrefixKeys[L Limit, P, S, V any](s store.Reader, p PrefixPage[L, P, S], m PairMap[P, S, V]) ([]S, error) {
	start, end := m.prefixBounds(p.Prefix, p.StartAfter)
	return collectKeys(s, start, end, p.EffectiveLimit(), m.decodeSuffix(m.prefixBytes(p.Prefix)))
}
