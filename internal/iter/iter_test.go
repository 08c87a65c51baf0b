package iter_test

import (
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekv/pagekv-go/internal/iter"
	"github.com/pagekv/pagekv-go/internal/types"
)

type countingIterator struct {
	inner iter.KVIterator
	calls int
}

func (c *countingIterator) Next() (mo.Option[types.KeyValue], error) {
	c.calls++
	return c.inner.Next()
}

func TestTake(t *testing.T) {
	for _, tc := range []struct {
		name     string
		n        uint64
		expected []string
	}{
		{"zero", 0, nil},
		{"fewer than available", 2, []string{"a", "b"}},
		{"exactly available", 3, []string{"a", "b", "c"}},
		{"more than available", 10, []string{"a", "b", "c"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			inner := iter.NewEntryIterator().
				Add([]byte("a"), []byte("1")).
				Add([]byte("b"), []byte("2")).
				Add([]byte("c"), []byte("3"))
			it := iter.Take(inner, tc.n)

			var keys []string
			for {
				next, err := it.Next()
				require.NoError(t, err)
				kv, ok := next.Get()
				if !ok {
					break
				}
				keys = append(keys, string(kv.Key))
			}
			assert.Equal(t, tc.expected, keys)
		})
	}
}

func TestTakeStopsCallingInner(t *testing.T) {
	inner := &countingIterator{inner: iter.NewEntryIterator().
		Add([]byte("a"), []byte("1")).
		Add([]byte("b"), []byte("2"))}
	it := iter.Take(inner, 1)

	next, err := it.Next()
	require.NoError(t, err)
	assert.True(t, next.IsPresent())

	next, err = it.Next()
	require.NoError(t, err)
	assert.False(t, next.IsPresent())
	assert.Equal(t, 1, inner.calls)
}

type failingIterator struct{}

func (failingIterator) Next() (mo.Option[types.KeyValue], error) {
	return mo.None[types.KeyValue](), errors.New("disk on fire")
}

func TestTakePropagatesError(t *testing.T) {
	_, err := iter.Take(failingIterator{}, 5).Next()
	assert.EqualError(t, err, "disk on fire")
}
