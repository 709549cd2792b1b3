package table

import enc "github.com/ndn-go/face/std/encoding"

// RptEntry is a registered-prefix record. FilterId is 0 when no
// Interest filter is coupled to the registration; otherwise it names
// an IFT id whose lifecycle is bound to this record (I3: the two are
// erased together).
type RptEntry struct {
	Id       uint64
	Prefix   enc.Name
	Options  RegisterOptions
	FilterId uint64
}

// RegisterOptions is the snapshot of registration parameters an RPT
// entry keeps so a later Unregister can reissue an equivalent command.
type RegisterOptions struct {
	Origin           uint64
	Cost             uint64
	Flags            uint64
	ExpirationPeriod uint64 // milliseconds, 0 means no expiration
}
