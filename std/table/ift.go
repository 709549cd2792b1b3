package table

import "github.com/ndn-go/face/std/ndn"

// IftEntry is an Interest-filter record: a filter and the handler to
// run for every Interest it matches.
type IftEntry struct {
	Id      uint64
	Filter  *ndn.InterestFilter
	OnInterest ndn.InterestHandler
}
