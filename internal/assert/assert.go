package assert

import (
	"fmt"
	"testing"

	assert2 "github.com/stretchr/testify/assert"

	"github.com/pagekv/pagekv-go/internal/iter"
)

// True panics with errMsg when condition does not hold. It guards internal
// invariants that callers cannot trigger through valid use.
func True(condition bool, errMsg string, arg ...any) {
	if !condition {
		panic(fmt.Sprintf("Assertion Failed: %s\n", fmt.Sprintf(errMsg, arg...)))
	}
}

// Next is a test helper to verify if it.Next() returns the required key and value
func Next(t *testing.T, it iter.KVIterator, key []byte, value []byte) bool {
	t.Helper()
	next, err := it.Next()
	if !assert2.NoError(t, err) {
		return false
	}
	kv, ok := next.Get()
	if !assert2.True(t, ok, "expected key %q, iterator is exhausted", key) {
		return false
	}
	return assert2.Equal(t, key, kv.Key) && assert2.Equal(t, value, kv.Value)
}

// Exhausted is a test helper to verify it has no entries left
func Exhausted(t *testing.T, it iter.KVIterator) bool {
	t.Helper()
	next, err := it.Next()
	if !assert2.NoError(t, err) {
		return false
	}
	return assert2.False(t, next.IsPresent(), "expected exhausted iterator, got %v", next.OrEmpty())
}
