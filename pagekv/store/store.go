// Package store holds the ordered byte-keyed stores pagination reads from.
package store

import (
	"errors"

	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/iter"
)

var ErrEmptyKey = errors.New("key cannot be empty")

// Reader is the read side of an ordered key-value store.
type Reader interface {
	// Get returns the value stored at key, or an absent option if there is none.
	Get(key []byte) (mo.Option[[]byte], error)

	// Range returns an iterator over every entry with start <= key < end in
	// ascending key order. A nil start begins at the first key and a nil end
	// runs to the last key.
	Range(start, end []byte) (iter.KVIterator, error)
}

// Storage is a Reader that can also be written to.
type Storage interface {
	Reader
	Set(key, value []byte) error
	Remove(key []byte) error
}
