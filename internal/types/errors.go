package types

import (
	"fmt"
	"strings"
)

// ErrWarn collects non-fatal problems found while reading a store, such as
// snapshot records that were skipped.
type ErrWarn struct {
	Warnings []string
}

func (e *ErrWarn) Error() string {
	return strings.Join(e.Warnings, "\n")
}

func (e *ErrWarn) Is(target error) bool {
	_, ok := target.(*ErrWarn)
	return ok
}

func (e *ErrWarn) Add(s string, arg ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(s, arg...))
}

// Len returns the number of warnings collected so far.
func (e *ErrWarn) Len() int {
	return len(e.Warnings)
}

func (e *ErrWarn) If() error {
	if len(e.Warnings) > 0 {
		return e
	}
	return nil
}
