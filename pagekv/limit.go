package pagekv

import "github.com/samber/mo"

// DefaultMaxLimit is the ceiling applied by DefaultLimit.
const DefaultMaxLimit = 50

// Limit fixes the maximum page size of a request type. Implementations are
// expected to be zero-size types returning a constant, one per endpoint:
//
//	type OwnersLimit struct{}
//
//	func (OwnersLimit) MaxLimit() uint32 { return 100 }
type Limit interface {
	MaxLimit() uint32
}

// DefaultLimit caps pages at DefaultMaxLimit entries.
type DefaultLimit struct{}

func (DefaultLimit) MaxLimit() uint32 { return DefaultMaxLimit }

// effectiveLimit clamps a requested limit to the ceiling of L. An absent
// request selects the ceiling. A request of zero is honored.
func effectiveLimit[L Limit](requested mo.Option[uint32]) uint32 {
	var l L
	ceiling := l.MaxLimit()
	return min(requested.OrElse(ceiling), ceiling)
}
