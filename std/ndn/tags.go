package ndn

import "github.com/ndn-go/face/std/types/optional"

// CachePolicyType is the policy value carried by the CachePolicy tag.
type CachePolicyType uint64

const CachePolicyNoCache CachePolicyType = 0

// PacketTags carries the NDNLPv2 link-layer tags attached to a single
// network-layer packet (Interest, Data, or Nack) as it crosses the
// Transport. The Face reads IncomingFaceId off received packets and
// writes NextHopFaceId/CongestionMark/CachePolicy on packets it sends,
// exactly mirroring ndn-cxx's per-packet tag table.
type PacketTags struct {
	// IncomingFaceId is set by the forwarder on packets it delivers to
	// this Face, identifying which of its faces the packet arrived on.
	IncomingFaceId optional.Optional[uint64]
	// NextHopFaceId directs the forwarder to forward this outgoing
	// Interest only to the given face, bypassing the FIB.
	NextHopFaceId optional.Optional[uint64]
	// CachePolicy asks downstream forwarders not to cache this Data.
	CachePolicy optional.Optional[CachePolicyType]
	// CongestionMark is an explicit congestion notification.
	CongestionMark optional.Optional[uint64]
	// PitToken is an opaque forwarder-assigned token for the PIT entry
	// this packet is associated with.
	PitToken []byte
}

// Clone returns a shallow copy of the tags with its own PitToken backing.
func (t PacketTags) Clone() PacketTags {
	ret := t
	if t.PitToken != nil {
		ret.PitToken = append([]byte(nil), t.PitToken...)
	}
	return ret
}
