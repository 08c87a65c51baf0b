// Package pagekv paginates typed maps held in an ordered key-value store.
//
// A Map describes how keys and values of one logical map are laid out in a
// store.Reader. A Page or PrefixPage is a request for one bounded page of
// that map, starting strictly after an optional cursor:
//
//	type ListLimit struct{}
//
//	func (ListLimit) MaxLimit() uint32 { return 30 }
//
//	balances := pagekv.NewMap[string, uint64]("balances", key.String{})
//	page := pagekv.Page[ListLimit, string]{Limit: mo.Some[uint32](10)}
//	next, err := pagekv.Paginate(s, page, balances, func(owner string, amount uint64) uint64 {
//	    return amount
//	})
//
// The maximum page size is part of the request type through its Limit type
// parameter, so each query endpoint fixes its own ceiling at compile time.
// Larger requested limits are capped to the ceiling rather than rejected.
//
// Each call reads one entry past the page to decide whether more data
// remains. NextPage.Next holds the key to pass back as StartAfter, and is
// absent once the map is exhausted.
package pagekv
