package iter

import (
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/types"
)

type EntryIterator struct {
	entries []types.KeyValue
	index   int
}

// NewEntryIterator is an iterator made up of KeyValue items. Users can add items
// via the NewEntryIterator() constructor or by calling Add() on the iterator.
// Entries are returned in the order they were added.
func NewEntryIterator(entries ...types.KeyValue) *EntryIterator {
	return &EntryIterator{
		entries: entries,
		index:   0,
	}
}

func (k *EntryIterator) Next() (mo.Option[types.KeyValue], error) {
	if k.index < len(k.entries) {
		entry := k.entries[k.index]
		k.index++
		return mo.Some(entry), nil
	}
	return mo.None[types.KeyValue](), nil
}

func (k *EntryIterator) Add(key []byte, value []byte) *EntryIterator {
	k.entries = append(k.entries, types.KeyValue{
		Key:   key,
		Value: value,
	})
	return k
}

func (k *EntryIterator) Len() int {
	return len(k.entries)
}
