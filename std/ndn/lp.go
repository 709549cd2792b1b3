package ndn

import (
	"bytes"

	enc "github.com/ndn-go/face/std/encoding"
)

// LpPacket is a decoded NDNLPv2 link-layer frame. Fragment carries the
// network-layer packet (Interest, Data, or Nack payload) this frame
// wraps; a nil Fragment with a populated Nack means the frame is a
// bare link-layer Nack with no network packet attached, which this
// Face never produces but tolerates on read.
type LpPacket struct {
	Fragment enc.Wire
	Tags     PacketTags
	Nack     *NackReason
}

// EncodeLpPacket wraps fragment in an NDNLPv2 LpPacket TLV, attaching
// whichever tags are set. If no tag is set and no Nack is present, the
// fragment is returned unwrapped, matching ndn-cxx's bare-frame
// optimization for plain Interest/Data forwarding.
func EncodeLpPacket(fragment enc.Wire, tags PacketTags, nack *NackReason) enc.Wire {
	if nack == nil && isEmptyTags(tags) {
		return fragment
	}

	body := new(bytes.Buffer)
	if nack != nil {
		inner := new(bytes.Buffer)
		appendNat(inner, TypeLpNackReason, uint64(*nack))
		appendTL(body, TypeLpNack, inner.Len())
		body.Write(inner.Bytes())
	}
	if id, ok := tags.IncomingFaceId.Get(); ok {
		appendNat(body, TypeLpIncomingFaceId, id)
	}
	if id, ok := tags.NextHopFaceId.Get(); ok {
		appendNat(body, TypeLpNextHopFaceId, id)
	}
	if cp, ok := tags.CachePolicy.Get(); ok {
		inner := new(bytes.Buffer)
		appendNat(inner, TypeLpCachePolicyTyp, uint64(cp))
		appendTL(body, TypeLpCachePolicy, inner.Len())
		body.Write(inner.Bytes())
	}
	if cm, ok := tags.CongestionMark.Get(); ok {
		appendNat(body, TypeLpCongestionMark, cm)
	}
	if len(tags.PitToken) > 0 {
		appendBytes(body, TypeLpPitToken, tags.PitToken)
	}
	if fragment != nil {
		appendWire(body, TypeLpFragment, fragment)
	}

	final := new(bytes.Buffer)
	appendTL(final, TypeLpPacket, body.Len())
	final.Write(body.Bytes())
	return enc.Wire{final.Bytes()}
}

// ReadLpPacket parses an NDNLPv2 frame. A buffer that does not start
// with an LpPacket TLV is rejected with ErrWrongType; ReadNetworkOrLpPacket
// is the reader that also accepts a bare Interest/Data frame.
func ReadLpPacket(reader enc.WireView) (*LpPacket, error) {
	typ, err := reader.ReadTLNum()
	if err != nil {
		return nil, err
	}
	if typ != TypeLpPacket {
		return nil, ErrWrongType
	}
	length, err := reader.ReadTLNum()
	if err != nil {
		return nil, err
	}
	body := reader.Delegate(int(length))
	elems, err := readTLVElements(&body)
	if err != nil {
		return nil, err
	}

	ret := &LpPacket{}
	for _, e := range elems {
		switch e.typ {
		case TypeLpFragment:
			ret.Fragment, err = e.readWire()
		case TypeLpPitToken:
			ret.Tags.PitToken, err = e.readBytes()
		case TypeLpIncomingFaceId:
			var n uint64
			n, err = e.readNat()
			ret.Tags.IncomingFaceId.Set(n)
		case TypeLpNextHopFaceId:
			var n uint64
			n, err = e.readNat()
			ret.Tags.NextHopFaceId.Set(n)
		case TypeLpCongestionMark:
			var n uint64
			n, err = e.readNat()
			ret.Tags.CongestionMark.Set(n)
		case TypeLpCachePolicy:
			err = parseCachePolicy(e, ret)
		case TypeLpNack:
			err = parseNack(e, ret)
		}
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// ReadNetworkOrLpPacket parses buf as an LpPacket if its outer TLV type
// is TypeLpPacket, and as a bare fragment (no tags, no Nack) otherwise.
func ReadNetworkOrLpPacket(reader enc.WireView) (*LpPacket, error) {
	peek := reader
	typ, err := peek.ReadTLNum()
	if err != nil {
		return nil, err
	}
	if typ == TypeLpPacket {
		return ReadLpPacket(reader)
	}
	frag, err := reader.ReadWire(reader.Length())
	if err != nil {
		return nil, err
	}
	return &LpPacket{Fragment: frag}, nil
}

func parseCachePolicy(e tlvElement, lp *LpPacket) error {
	inner, err := readTLVElements(&e.value)
	if err != nil {
		return err
	}
	for _, f := range inner {
		if f.typ == TypeLpCachePolicyTyp {
			n, err := f.readNat()
			if err != nil {
				return err
			}
			lp.Tags.CachePolicy.Set(CachePolicyType(n))
		}
	}
	return nil
}

func parseNack(e tlvElement, lp *LpPacket) error {
	inner, err := readTLVElements(&e.value)
	if err != nil {
		return err
	}
	reason := NackReasonNone
	for _, f := range inner {
		if f.typ == TypeLpNackReason {
			n, err := f.readNat()
			if err != nil {
				return err
			}
			reason = NackReason(n)
		}
	}
	lp.Nack = &reason
	return nil
}

func isEmptyTags(t PacketTags) bool {
	_, inc := t.IncomingFaceId.Get()
	_, nh := t.NextHopFaceId.Get()
	_, cp := t.CachePolicy.Get()
	_, cm := t.CongestionMark.Get()
	return !inc && !nh && !cp && !cm && len(t.PitToken) == 0
}
