package pagekv

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreRead matches every *StoreReadError with errors.Is.
	ErrStoreRead   = errors.New("store read failed")
	ErrKeyNotFound = errors.New("key not found")
)

// StoreReadError reports a failure while reading from the store, including
// entries that were read but could not be decoded. It is the only error a
// pagination call returns.
type StoreReadError struct {
	// Op names the read step that failed, such as "range" or "decode value".
	Op string
	// Key is the raw store key involved, if any.
	Key []byte
	Err error
}

func (e *StoreReadError) Error() string {
	if len(e.Key) > 0 {
		return fmt.Sprintf("%s: %s at key %x: %s", ErrStoreRead, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrStoreRead, e.Op, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

func (e *StoreReadError) Is(target error) bool {
	return target == ErrStoreRead
}

func readErr(op string, key []byte, err error) error {
	return &StoreReadError{Op: op, Key: key, Err: err}
}
