package face

import (
	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/log"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/table"
)

// SetInterestFilter implements 4.3: registers a local callback for
// every Interest (from the transport, or expressed locally when
// AllowLoopback is true) matching filter. It does not register the
// prefix with the forwarder; see RegisterPrefix for that.
func (f *Face) SetInterestFilter(filter *ndn.InterestFilter, onInterest ndn.InterestHandler) InterestFilterHandle {
	entry := &table.IftEntry{Filter: filter, OnInterest: onInterest}
	id := f.ift.Insert(entry)
	entry.Id = id
	return InterestFilterHandle{face: f, id: id}
}

func (f *Face) unsetInterestFilter(id uint64) {
	f.ift.Erase(id)
}

// handleInterest processes an Interest arriving from the transport:
// installs a FORWARDER-origin PIT entry (so a later put responds to
// it) and dispatches it to every matching filter.
func (f *Face) handleInterest(interest ndn.Interest, raw enc.Wire, sigCovered enc.Wire, tags ndn.PacketTags) {
	// Count matching filters before the PIT entry is even inserted:
	// NNotNacked must equal the number of independent destinations that
	// can each Nack this Interest (one per matching filter, mirroring
	// ndn-cxx's per-match recordForwarding), not a flat 1 — otherwise
	// the first Nack from any one filter would close an entry still
	// owed a verdict from the others.
	var matched []*table.IftEntry
	f.ift.ForEach(func(_ uint64, e *table.IftEntry) {
		ok, err := e.Filter.Match(interest.Name())
		if err != nil {
			log.Warn("interest filter match failed", "err", err)
			return
		}
		if ok {
			matched = append(matched, e)
		}
	})

	entry := &table.PitEntry{
		Interest:    interest,
		Origin:      table.OriginForwarder,
		RawInterest: raw,
		NNotNacked:  len(matched),
	}
	id := f.pit.Insert(entry)
	entry.Id = id

	lifetime := lifetimeOrDefault(interest)
	deadline := f.sched.Now().Add(lifetime)
	entry.TimeoutToken = f.sched.Schedule(lifetime, func() {
		f.post(func() { f.fireTimeout(id) })
	})

	reply := f.replyFunc(ndn.PacketTags{})
	for _, e := range matched {
		e.OnInterest(ndn.InterestHandlerArgs{
			Interest:       interest,
			Reply:          reply,
			RawInterest:    raw,
			SigCovered:     sigCovered,
			Deadline:       deadline,
			IncomingFaceId: tags.IncomingFaceId,
		})
	}
}

// handleData processes a Data packet arriving from the transport: it
// is dispatched to the PIT and otherwise never retransmitted, since
// this Face is a client endpoint, not a relay.
func (f *Face) handleData(data ndn.Data, raw enc.Wire, sigCovered enc.Wire) {
	f.satisfyPendingInterests(data, raw, sigCovered)
}

// dispatchLoopback implements 4.2 step 4: a locally-expressed
// Interest is also offered to every filter with AllowLoopback set,
// without consuming or forking a PIT entry of its own.
func (f *Face) dispatchLoopback(interest ndn.Interest) {
	reply := f.replyFunc(ndn.PacketTags{})
	deadline := f.sched.Now().Add(lifetimeOrDefault(interest))
	f.ift.ForEach(func(_ uint64, e *table.IftEntry) {
		if !e.Filter.AllowLoopback {
			return
		}
		ok, err := e.Filter.Match(interest.Name())
		if err != nil {
			log.Warn("loopback filter match failed", "err", err)
			return
		}
		if !ok {
			return
		}
		e.OnInterest(ndn.InterestHandlerArgs{
			Interest: interest,
			Reply:    reply,
			Deadline: deadline,
		})
	})
}

// replyFunc builds the WireReplyFunc handed to InterestHandler
// callbacks: it decodes wire (a Data, or an NDNLP Nack frame wrapping
// the original Interest) and routes it through PutData/PutNack,
// exactly as if the application had called them directly.
func (f *Face) replyFunc(tags ndn.PacketTags) ndn.WireReplyFunc {
	return func(wire enc.Wire) error {
		return f.putRaw(wire, tags)
	}
}

func (f *Face) putRaw(wire enc.Wire, tags ndn.PacketTags) error {
	lp, err := ndn.ReadNetworkOrLpPacket(enc.NewWireView(wire))
	if err != nil {
		return err
	}
	if lp.Nack != nil {
		if lp.Fragment == nil {
			return ErrInvalidReply{Reason: "nack frame has no fragment"}
		}
		interest, _, err := f.spec.ReadInterest(enc.NewWireView(lp.Fragment))
		if err != nil {
			return err
		}
		return f.PutNack(ndn.Nack{Interest: interest, Reason: *lp.Nack}, tags)
	}
	if lp.Fragment == nil {
		return ErrInvalidReply{Reason: "reply has no fragment"}
	}
	data, sigCovered, err := f.spec.ReadData(enc.NewWireView(lp.Fragment))
	if err != nil {
		return err
	}
	return f.PutData(data, lp.Fragment, sigCovered, tags)
}

// PutData implements 4.3's put(data): it first satisfies every
// matching PIT entry locally, then forwards the Data to the transport
// only if a FORWARDER-origin entry was among the matches; otherwise
// the Data is unsolicited from the network's perspective and is
// dropped, never relayed speculatively.
func (f *Face) PutData(data ndn.Data, wire enc.Wire, sigCovered enc.Wire, tags ndn.PacketTags) error {
	if f.closed.Load() {
		return ErrFaceClosed{}
	}
	hasForwarderMatch, _ := f.satisfyPendingInterests(data, wire, sigCovered)
	if !hasForwarderMatch {
		return nil
	}
	return f.encodeAndSend(wire, tags, nil, "send", data.Name().String())
}

// PutNack implements 4.3's put(nack): aggregated the same way incoming
// Nacks are, and forwarded to the transport only when the aggregation
// closes a FORWARDER-origin entry.
func (f *Face) PutNack(nack ndn.Nack, tags ndn.PacketTags) error {
	if f.closed.Load() {
		return ErrFaceClosed{}
	}
	forward := f.nackPendingInterests(nack)
	if forward == nil {
		return nil
	}
	return f.encodeAndSend(forward.raw, tags, &forward.nack.Reason, "send", forward.nack.Interest.Name().String())
}

// ErrInvalidReply is returned by an InterestHandler's Reply func when
// the wire it was given does not decode into a usable Data or Nack.
type ErrInvalidReply struct {
	Reason string
}

func (e ErrInvalidReply) Error() string { return "invalid reply: " + e.Reason }
