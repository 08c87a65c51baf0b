package types

import "slices"

// KeyValue represents a raw key-value pair as it is held by a store.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Clone returns a KeyValue that shares no memory with kv.
func (kv KeyValue) Clone() KeyValue {
	return KeyValue{
		Key:   slices.Clone(kv.Key),
		Value: slices.Clone(kv.Value),
	}
}
