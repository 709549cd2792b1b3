package face

import (
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/mgmt"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/table"
)

// pendingRegistration tracks a registerPrefix/announcePrefix call
// between the id reservation and the command's completion (4.4 step
// 1: "Allocate an RPT id immediately. Do NOT insert yet."). A handle
// whose id has no entry here and no RptEntry in f.rpt is unrecognized.
type pendingRegistration struct {
	prefix     enc.Name
	options    table.RegisterOptions
	filter     *ndn.InterestFilter
	onInterest ndn.InterestHandler
	cancelled  bool
	onSuccess  func(prefix enc.Name)
	onFailure  func(prefix enc.Name, reason string)
}

// RegisterPrefix implements 4.4's registerPrefix: it reserves the RPT
// id synchronously, issues RibRegisterCommand, and resolves onSuccess
// or onFailure once the command completes. filter/onInterest are
// optional; when both are non-nil, a matching IFT record is installed
// together with the RPT entry on success.
func (f *Face) RegisterPrefix(
	prefix enc.Name,
	options table.RegisterOptions,
	onSuccess func(prefix enc.Name),
	onFailure func(prefix enc.Name, reason string),
	filter *ndn.InterestFilter,
	onInterest ndn.InterestHandler,
) RegisteredPrefixHandle {
	if f.closed.Load() {
		if onFailure != nil {
			onFailure(prefix, "face is closed")
		}
		return RegisteredPrefixHandle{}
	}

	id := f.rpt.ReserveID()
	f.pendingReg[id] = &pendingRegistration{
		prefix:     prefix,
		options:    options,
		filter:     filter,
		onInterest: onInterest,
		onSuccess:  onSuccess,
		onFailure:  onFailure,
	}

	args := &mgmt.ControlArgs{Name: prefix}
	if options.Origin != 0 {
		args.Origin = &options.Origin
	}
	if options.Cost != 0 {
		args.Cost = &options.Cost
	}
	if options.Flags != 0 {
		args.Flags = &options.Flags
	}
	if options.ExpirationPeriod != 0 {
		args.ExpirationPeriod = &options.ExpirationPeriod
	}

	err := f.ctrl.ExecAsync("rib", "register", args, func(resp *mgmt.ControlResponse, err error) {
		f.completeRegistration(id, err)
	})
	if err != nil {
		f.post(func() { f.completeRegistration(id, err) })
	}
	return RegisteredPrefixHandle{face: f, id: id}
}

// AnnouncePrefix is structurally identical to RegisterPrefix except it
// issues RibAnnounceCommand carrying a signed PrefixAnnouncement
// instead of plain ControlParameters.
func (f *Face) AnnouncePrefix(
	prefix enc.Name,
	expiration time.Duration,
	version uint64,
	onSuccess func(prefix enc.Name),
	onFailure func(prefix enc.Name, reason string),
	filter *ndn.InterestFilter,
	onInterest ndn.InterestHandler,
) RegisteredPrefixHandle {
	if f.closed.Load() {
		if onFailure != nil {
			onFailure(prefix, "face is closed")
		}
		return RegisteredPrefixHandle{}
	}
	if f.signer == nil {
		if onFailure != nil {
			onFailure(prefix, "no signer set for announcement")
		}
		return RegisteredPrefixHandle{}
	}

	ann, err := ndn.MakePrefixAnnouncement(f.spec, prefix, version, expiration, f.signer)
	if err != nil {
		if onFailure != nil {
			onFailure(prefix, err.Error())
		}
		return RegisteredPrefixHandle{}
	}

	id := f.rpt.ReserveID()
	f.pendingReg[id] = &pendingRegistration{
		prefix: prefix,
		options: table.RegisterOptions{
			ExpirationPeriod: uint64(expiration.Milliseconds()),
		},
		filter:     filter,
		onInterest: onInterest,
		onSuccess:  onSuccess,
		onFailure:  onFailure,
	}

	cmdErr := f.ctrl.AnnounceRouteAsync(ann.Wire, func(resp *mgmt.ControlResponse, err error) {
		f.completeRegistration(id, err)
	})
	if cmdErr != nil {
		f.post(func() { f.completeRegistration(id, cmdErr) })
	}
	return RegisteredPrefixHandle{face: f, id: id}
}

func (f *Face) completeRegistration(id uint64, cmdErr error) {
	pending, ok := f.pendingReg[id]
	if !ok {
		return
	}
	delete(f.pendingReg, id)
	if pending.cancelled {
		return
	}

	if cmdErr != nil {
		if pending.onFailure != nil {
			pending.onFailure(pending.prefix, cmdErr.Error())
		}
		return
	}

	var filterID uint64
	if pending.filter != nil && pending.onInterest != nil {
		entry := &table.IftEntry{Filter: pending.filter, OnInterest: pending.onInterest}
		filterID = f.ift.Insert(entry)
		entry.Id = filterID
	}
	f.rpt.InsertAt(id, &table.RptEntry{
		Id:       id,
		Prefix:   pending.prefix,
		Options:  pending.options,
		FilterId: filterID,
	})
	if pending.onSuccess != nil {
		pending.onSuccess(pending.prefix)
	}
}

// cancelRegistration implements RegisteredPrefixHandle.Cancel. A
// still-pending registration is simply dropped: its eventual response,
// if any, becomes a no-op, and no command was ever owed to the
// forwarder. A completed (RPT-resident) registration, however, left a
// real route in the forwarder's RIB, so cancelling it issues the same
// RibUnregisterCommand Unregister would, just fire-and-forget with no
// onSuccess/onFailure — matching ndn-cxx's face.cpp, whose
// RegisteredPrefixHandle cancel lambda is literally
// unregister(weakImpl, id, nullptr, nullptr).
func (f *Face) cancelRegistration(id uint64) {
	if pending, ok := f.pendingReg[id]; ok {
		pending.cancelled = true
		return
	}
	if _, ok := f.rpt.Get(id); !ok {
		return
	}
	f.unregister(id, nil, nil)
}

// unregister implements RegisteredPrefixHandle.Unregister: I3 requires
// the coupled IFT entry to be erased before the RibUnregisterCommand
// is even issued, and the RPT entry survives until the command
// actually completes.
func (f *Face) unregister(id uint64, onSuccess func(), onFailure func(reason string)) {
	if pending, ok := f.pendingReg[id]; ok {
		pending.cancelled = true
		delete(f.pendingReg, id)
		if onFailure != nil {
			onFailure("Unrecognized registered prefix handle")
		}
		return
	}

	entry, ok := f.rpt.Get(id)
	if !ok {
		if onFailure != nil {
			onFailure("Unrecognized registered prefix handle")
		}
		return
	}

	if entry.FilterId != 0 {
		f.ift.Erase(entry.FilterId)
	}

	args := &mgmt.ControlArgs{Name: entry.Prefix}
	if entry.Options.Origin != 0 {
		args.Origin = &entry.Options.Origin
	}
	err := f.ctrl.ExecAsync("rib", "unregister", args, func(resp *mgmt.ControlResponse, err error) {
		f.rpt.Erase(id)
		if err != nil {
			if onFailure != nil {
				onFailure(err.Error())
			}
			return
		}
		if onSuccess != nil {
			onSuccess()
		}
	})
	if err != nil {
		f.rpt.Erase(id)
		if onFailure != nil {
			onFailure(err.Error())
		}
	}
}
