package iter

import (
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/types"
)

type KVIterator interface {
	// Next returns the next key-value pair in ascending key order. An absent
	// option with a nil error means the iterator is exhausted.
	Next() (mo.Option[types.KeyValue], error)
}

type TakeIterator struct {
	inner     KVIterator
	remaining uint64
}

// Take returns an iterator which yields at most n entries from inner and
// never calls inner.Next() again once n entries were returned.
func Take(inner KVIterator, n uint64) *TakeIterator {
	return &TakeIterator{
		inner:     inner,
		remaining: n,
	}
}

func (t *TakeIterator) Next() (mo.Option[types.KeyValue], error) {
	if t.remaining == 0 {
		return mo.None[types.KeyValue](), nil
	}
	next, err := t.inner.Next()
	if err != nil {
		return mo.None[types.KeyValue](), err
	}
	if next.IsPresent() {
		t.remaining--
	}
	return next, nil
}
