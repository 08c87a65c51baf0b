package store

import (
	"bytes"
	"slices"
	"sync"

	"github.com/gammazero/deque"
	"github.com/huandu/skiplist"
	"github.com/kapetan-io/tackle/set"
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/iter"
	"github.com/pagekv/pagekv-go/internal/types"
)

// Memory is an ordered in-memory Storage backed by a skip list. It is safe
// for concurrent use.
type Memory struct {
	sync.RWMutex

	// skl stores key ([]byte), value ([]byte) pairs ordered by key
	skl  *skiplist.SkipList
	opts MemoryOptions
}

func NewMemory() *Memory {
	return NewMemoryWithOptions(DefaultMemoryOptions())
}

func NewMemoryWithOptions(opts MemoryOptions) *Memory {
	set.Default(&opts.BatchSize, DefaultMemoryOptions().BatchSize)
	if opts.BatchSize < 0 {
		opts.BatchSize = DefaultMemoryOptions().BatchSize
	}
	return &Memory{
		skl:  skiplist.New(skiplist.Bytes),
		opts: opts,
	}
}

func (m *Memory) Get(key []byte) (mo.Option[[]byte], error) {
	m.RLock()
	defer m.RUnlock()

	elem := m.skl.Get(key)
	if elem == nil {
		return mo.None[[]byte](), nil
	}
	return mo.Some(slices.Clone(elem.Value.([]byte))), nil
}

func (m *Memory) Set(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	m.Lock()
	defer m.Unlock()

	m.skl.Set(slices.Clone(key), slices.Clone(value))
	return nil
}

// Remove deletes key. Removing a key that does not exist is not an error.
func (m *Memory) Remove(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	m.Lock()
	defer m.Unlock()

	m.skl.Remove(key)
	return nil
}

// Len returns the number of entries in the store.
func (m *Memory) Len() int {
	m.RLock()
	defer m.RUnlock()
	return m.skl.Len()
}

// Range returns an iterator over [start, end). The iterator copies entries
// out in batches and holds no lock between calls to Next(), so a batch is
// consistent but writes made between batches may be observed.
func (m *Memory) Range(start, end []byte) (iter.KVIterator, error) {
	if start != nil && end != nil && bytes.Compare(start, end) >= 0 {
		return iter.NewEntryIterator(), nil
	}
	return &memoryIterator{
		mem:  m,
		from: slices.Clone(start),
		end:  slices.Clone(end),
		buf:  deque.New[types.KeyValue](m.opts.BatchSize),
	}, nil
}

type memoryIterator struct {
	mem *Memory

	// from is the inclusive key the next batch starts at, nil for the front
	from []byte
	end  []byte
	buf  *deque.Deque[types.KeyValue]
	done bool
}

func (it *memoryIterator) Next() (mo.Option[types.KeyValue], error) {
	if it.buf.Len() == 0 && !it.done {
		it.fill()
	}
	if it.buf.Len() == 0 {
		return mo.None[types.KeyValue](), nil
	}
	return mo.Some(it.buf.PopFront()), nil
}

func (it *memoryIterator) fill() {
	it.mem.RLock()
	defer it.mem.RUnlock()

	var elem *skiplist.Element
	if it.from == nil {
		elem = it.mem.skl.Front()
	} else {
		elem = it.mem.skl.Find(it.from)
	}

	for n := 0; elem != nil && n < it.mem.opts.BatchSize; n++ {
		kv := types.KeyValue{
			Key:   elem.Key().([]byte),
			Value: elem.Value.([]byte),
		}
		if it.end != nil && bytes.Compare(kv.Key, it.end) >= 0 {
			it.done = true
			return
		}
		it.buf.PushBack(kv.Clone())
		elem = elem.Next()
	}

	if elem == nil {
		it.done = true
		return
	}
	it.from = slices.Clone(elem.Key().([]byte))
}
