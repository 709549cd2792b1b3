package face

import (
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/table"
	"github.com/ndn-go/face/std/types/optional"
)

// Express is the consumer path (4.2): encodes and signs an Interest,
// installs an APP-origin PIT entry with a timeout matching the
// Interest's lifetime, sends it, and dispatches it against the IFT
// for loopback before returning.
func (f *Face) Express(name enc.Name, config *ndn.InterestConfig, appParam enc.Wire, signer ndn.Signer, callback ndn.ExpressCallbackFunc) (PendingInterestHandle, error) {
	if f.closed.Load() {
		return PendingInterestHandle{}, ErrFaceClosed{}
	}

	var cfg ndn.InterestConfig
	if config != nil {
		cfg = *config
	}
	if _, ok := cfg.Lifetime.Get(); !ok {
		cfg.Lifetime = optional.Some(DefaultInterestLifetime)
	}

	encoded, err := f.spec.MakeInterest(name, &cfg, appParam, signer)
	if err != nil {
		return PendingInterestHandle{}, err
	}

	tags := ndn.PacketTags{}
	if nh, ok := cfg.NextHopId.Get(); ok {
		tags.NextHopFaceId.Set(nh)
	}

	view := interestView{encoded}
	id, err := f.expressInterest(view, encoded.Wire, tags, callback)
	if err != nil {
		return PendingInterestHandle{}, err
	}
	return PendingInterestHandle{face: f, id: id}, nil
}

// ExpressInterest satisfies mgmt.Expresser: a lower-level entry point
// used by the management Controller to send a pre-encoded command
// Interest with no NDNLP tags attached.
func (f *Face) ExpressInterest(interest ndn.Interest, wire enc.Wire, callback ndn.ExpressCallbackFunc) error {
	if f.closed.Load() {
		return ErrFaceClosed{}
	}
	_, err := f.expressInterest(interest, wire, ndn.PacketTags{}, callback)
	return err
}

func (f *Face) expressInterest(interest ndn.Interest, wire enc.Wire, tags ndn.PacketTags, callback ndn.ExpressCallbackFunc) (uint64, error) {
	entry := &table.PitEntry{
		Interest:   interest,
		Origin:     table.OriginApp,
		Callback:   callback,
		NNotNacked: 1,
	}
	id := f.pit.Insert(entry)
	entry.Id = id

	lifetime := lifetimeOrDefault(interest)
	entry.TimeoutToken = f.sched.Schedule(lifetime, func() {
		f.post(func() { f.fireTimeout(id) })
	})

	if err := f.encodeAndSend(wire, tags, nil, "send", interest.Name().String()); err != nil {
		f.cancelPending(id)
		return 0, err
	}

	f.dispatchLoopback(interest)
	return id, nil
}

func (f *Face) fireTimeout(id uint64) {
	entry, ok := f.pit.Get(id)
	if !ok || entry.Closed {
		return
	}
	entry.Closed = true
	f.pit.Erase(id)
	if entry.Origin == table.OriginApp && entry.Callback != nil {
		entry.Callback(ndn.ExpressCallbackArgs{Result: ndn.InterestResultTimeout})
	}
}

// cancelPending is the loop-thread half of PendingInterestHandle.Cancel:
// erases the entry and cancels its timeout without invoking any
// callback, per P1/P6.
func (f *Face) cancelPending(id uint64) {
	entry, ok := f.pit.Get(id)
	if !ok {
		return
	}
	if entry.TimeoutToken != nil {
		entry.TimeoutToken.Cancel()
	}
	f.pit.Erase(id)
}

// RemoveAllPendingInterests implements P8: clears the PIT without
// invoking any data/nack/timeout callback on the entries removed.
func (f *Face) RemoveAllPendingInterests() {
	f.pit.RemoveIf(func(_ uint64, e *table.PitEntry) bool {
		if e.TimeoutToken != nil {
			e.TimeoutToken.Cancel()
		}
		return true
	})
}

// satisfyPendingInterests removes every PIT entry whose Interest
// matches data's name, invoking the APP callback of each APP-origin
// match. hasForwarderMatch reports whether any FORWARDER-origin entry
// matched (data is owed to the network); hasAppMatch reports whether
// any APP-origin entry matched (data was consumed locally).
func (f *Face) satisfyPendingInterests(data ndn.Data, raw enc.Wire, sigCovered enc.Wire) (hasForwarderMatch, hasAppMatch bool) {
	name := data.Name()
	f.pit.RemoveIf(func(_ uint64, e *table.PitEntry) bool {
		if e.Closed || !e.MatchesData(name) {
			return false
		}
		e.Closed = true
		if e.TimeoutToken != nil {
			e.TimeoutToken.Cancel()
		}
		if e.Origin == table.OriginApp {
			hasAppMatch = true
			if e.Callback != nil {
				e.Callback(ndn.ExpressCallbackArgs{
					Result:     ndn.InterestResultData,
					Data:       data,
					RawData:    raw,
					SigCovered: sigCovered,
				})
			}
		} else {
			hasForwarderMatch = true
		}
		return true
	})
	return
}

// forwardNack is the least-severe Nack still owed to the network after
// nackPendingInterests closes every entry a Nack reached zero on.
type forwardNack struct {
	nack ndn.Nack
	raw  enc.Wire
}

// nackPendingInterests implements 4.2/4.6's Nack aggregation: every PIT
// entry correlated to nack.Interest records the least-severe header
// seen and decrements its outstanding-destination count; an entry is
// closed, and its callback (if APP-origin) invoked, only once that
// count reaches zero.
func (f *Face) nackPendingInterests(nack ndn.Nack) *forwardNack {
	var toClose []uint64
	f.pit.ForEach(func(id uint64, e *table.PitEntry) {
		if e.Closed || !e.MatchesInterest(nack.Interest) {
			return
		}
		if e.NackHeader == nil || nack.Reason.Less(e.NackHeader.Reason) {
			hdr := nack
			e.NackHeader = &hdr
		}
		e.NNotNacked--
		if e.NNotNacked <= 0 {
			toClose = append(toClose, id)
		}
	})

	var forward *forwardNack
	for _, id := range toClose {
		e, ok := f.pit.Get(id)
		if !ok {
			continue
		}
		e.Closed = true
		if e.TimeoutToken != nil {
			e.TimeoutToken.Cancel()
		}
		f.pit.Erase(id)

		if e.Origin == table.OriginApp {
			if e.Callback != nil {
				e.Callback(ndn.ExpressCallbackArgs{
					Result:     ndn.InterestResultNack,
					NackReason: e.NackHeader.Reason,
				})
			}
		} else if forward == nil || e.NackHeader.Reason.Less(forward.nack.Reason) {
			forward = &forwardNack{nack: *e.NackHeader, raw: e.RawInterest}
		}
	}
	return forward
}

func lifetimeOrDefault(i ndn.Interest) time.Duration {
	if l, ok := i.Lifetime().Get(); ok {
		return l
	}
	return DefaultInterestLifetime
}
