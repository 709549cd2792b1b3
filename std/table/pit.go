package table

import (
	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/scheduler"
)

// Origin distinguishes a PIT entry inserted by a local Express call
// from one inserted because an Interest arrived off the transport.
type Origin int

const (
	OriginApp Origin = iota
	OriginForwarder
)

// PitEntry is a pending-Interest record. Name and Nonce are immutable
// once inserted; everything else the Face mutates as the entry moves
// through its OPEN -> CLOSED lifecycle.
type PitEntry struct {
	Id       uint64
	Interest ndn.Interest
	Origin   Origin

	// RawInterest is the exact bytes the Interest was received as, set
	// only for FORWARDER-origin entries. A Nack echoes these bytes back
	// as its NDNLP fragment rather than re-encoding the decoded
	// Interest, matching what the forwarder actually sent.
	RawInterest enc.Wire

	// Callback is invoked exactly once across the entry's lifetime for
	// an APP-origin entry, on whichever of satisfy/nack/timeout fires
	// first; ExpressCallbackArgs.Result discriminates the three cases
	// rather than using separate data/nack/timeout callbacks.
	Callback     ndn.ExpressCallbackFunc
	TimeoutToken scheduler.Token

	// NackHeader holds the least-severe Nack observed so far for this
	// entry, or nil if none has arrived yet.
	NackHeader *ndn.Nack
	// NNotNacked counts outstanding forwarding destinations that have
	// not yet responded with a Nack. It starts at 1 for an APP-origin
	// entry and at the number of matching Interest filters for a
	// FORWARDER-origin entry, and is decremented by the Face's
	// nackPendingInterests.
	NNotNacked int

	Closed bool
}

// MatchesData reports whether d satisfies e.Interest, per the name
// and CanBePrefix rules in the Name-matching contract: the Interest
// name must be a prefix of d's name, and if CanBePrefix is false the
// names must be equal in length, or the Interest name may be exactly
// one component shorter when that last Data component is an implicit
// digest.
func (e *PitEntry) MatchesData(name enc.Name) bool {
	in := e.Interest.Name()
	if !in.IsPrefix(name) {
		return false
	}
	if e.Interest.CanBePrefix() {
		return true
	}
	if len(in) == len(name) {
		return true
	}
	if len(in) == len(name)-1 && name[len(name)-1].Typ == enc.TypeImplicitSha256DigestComponent {
		return true
	}
	return false
}

// MatchesInterest reports whether other correlates to the same PIT
// entry as e: equal names, and equal nonces when both are present.
func (e *PitEntry) MatchesInterest(other ndn.Interest) bool {
	if e.Interest.Name().Compare(other.Name()) != 0 {
		return false
	}
	n1, ok1 := e.Interest.Nonce().Get()
	n2, ok2 := other.Nonce().Get()
	if ok1 && ok2 {
		return n1 == n2
	}
	return true
}
