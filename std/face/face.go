// Package face implements the Face core: a single-threaded dispatcher
// that multiplexes application Interest/Data/Nack traffic over one
// Transport connection to a local NDN forwarder. It owns three record
// tables (PIT, IFT, RPT) and drives them from one goroutine fed by
// buffered channels, the same cooperative-loop shape ndn-cxx's Face
// uses around a single io_context.
package face

import (
	"sync/atomic"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/log"
	"github.com/ndn-go/face/std/mgmt"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/scheduler"
	"github.com/ndn-go/face/std/table"
	"github.com/ndn-go/face/std/transport"
	"github.com/ndn-go/face/std/types/optional"
)

// DefaultInterestLifetime is used when an Express call's config leaves
// Lifetime unset.
const DefaultInterestLifetime = 4000 * time.Millisecond

// DefaultRegistrationTimeout bounds how long a registration or
// unregistration command waits for a response before failing.
const DefaultRegistrationTimeout = 10 * time.Second

// Face is the dispatcher. Construct with New, then Run to open the
// transport and start the event loop. Every exported method not
// documented otherwise must be called from the loop goroutine itself
// (from inside a callback); PendingInterestHandle.Cancel,
// InterestFilterHandle.Cancel, and RegisteredPrefixHandle.{Cancel,
// Unregister} are the only cross-thread-safe entry points, per the
// concurrency model's post-to-loop discipline.
type Face struct {
	transport transport.Transport
	spec      ndn.Spec
	sched     scheduler.Scheduler
	ctrl      *mgmt.Controller
	signer    ndn.Signer

	pit *table.RecordContainer[*table.PitEntry]
	ift *table.RecordContainer[*table.IftEntry]
	rpt *table.RecordContainer[*table.RptEntry]

	pendingReg map[uint64]*pendingRegistration

	inbound chan []byte
	tasks   chan func()
	closeCh chan struct{}

	running atomic.Bool
	closed  atomic.Bool
}

// New builds a Face over t, using spec to encode/decode packets and
// sched for timeouts and nonces. The returned Face is idle until Run
// is called.
func New(t transport.Transport, spec ndn.Spec, sched scheduler.Scheduler) *Face {
	f := &Face{
		transport: t,
		spec:      spec,
		sched:     sched,
		pit:       table.NewRecordContainer[*table.PitEntry](),
		ift:       table.NewRecordContainer[*table.IftEntry](),
		rpt:        table.NewRecordContainer[*table.RptEntry](),
		pendingReg: make(map[uint64]*pendingRegistration),
		inbound:   make(chan []byte, 64),
		tasks:     make(chan func(), 64),
		closeCh:   make(chan struct{}),
	}
	f.ctrl = mgmt.NewController(t.IsLocal(), spec, sched, f)
	f.ctrl.SetCommandTimeout(DefaultRegistrationTimeout)
	f.pit.OnEmpty(func() { f.post(f.maybePauseTransport) })
	f.rpt.OnEmpty(func() { f.post(f.maybePauseTransport) })
	return f
}

// SetSigner sets the signer used to sign outgoing management commands
// (registerPrefix, unregister, announcePrefix). With no signer set,
// registration and unregistration command Interests are sent unsigned
// and announcePrefix fails.
func (f *Face) SetSigner(signer ndn.Signer) {
	f.signer = signer
	f.ctrl.SetSigner(signer)
}

// SetSigChecker installs the validator run against a management
// response's signature before it is trusted.
func (f *Face) SetSigChecker(checker mgmt.SigChecker) {
	f.ctrl.SetSigChecker(checker)
}

// SetCommandTimeout overrides how long registerPrefix/announcePrefix/
// unregister command Interests wait for a response before failing,
// in place of DefaultRegistrationTimeout, per §4.4's "configurable,
// default 10 s" overall command timeout.
func (f *Face) SetCommandTimeout(d time.Duration) {
	f.ctrl.SetCommandTimeout(d)
}

// Run connects the transport and starts the event loop. It returns
// once the transport is connected; packet dispatch continues on a
// background goroutine until Close is called or the transport fails.
func (f *Face) Run() error {
	if !f.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning{}
	}
	if err := f.transport.Connect(f.onReceive, f.onTransportError); err != nil {
		f.running.Store(false)
		return err
	}
	go f.loop()
	return nil
}

// Close tears the Face down: closes the transport and signals the loop
// goroutine, which then fails every APP-origin pending Interest with an
// InterestResultError carrying ErrFaceClosed and clears all three
// tables. Safe to call more than once.
func (f *Face) Close() {
	if !f.closed.CompareAndSwap(false, true) {
		return
	}
	close(f.closeCh)
	_ = f.transport.Close()
}

func (f *Face) onReceive(frame []byte) bool {
	if f.closed.Load() {
		return false
	}
	select {
	case f.inbound <- frame:
		return true
	case <-f.closeCh:
		return false
	}
}

func (f *Face) onTransportError(err error) {
	log.Warn("face transport error", "err", err)
	f.post(func() { f.shutdown() })
}

// post schedules fn to run on the loop goroutine. Safe to call from
// any goroutine, including from inside a callback already running on
// the loop (fn then runs on the next turn).
func (f *Face) post(fn func()) {
	select {
	case f.tasks <- fn:
	case <-f.closeCh:
	}
}

func (f *Face) loop() {
	for {
		select {
		case frame := <-f.inbound:
			f.handleFrame(frame)
		case task := <-f.tasks:
			task()
		case <-f.closeCh:
			f.shutdown()
			return
		}
	}
}

// shutdown clears all three tables, cancelling every PIT timeout and
// failing every APP-origin pending Interest with an InterestResultError
// carrying ErrFaceClosed, grounded on ndn-cxx's Face::Impl::~Impl.
func (f *Face) shutdown() {
	f.pit.RemoveIf(func(_ uint64, e *table.PitEntry) bool {
		if e.TimeoutToken != nil {
			e.TimeoutToken.Cancel()
		}
		if e.Origin == table.OriginApp && e.Callback != nil && !e.Closed {
			e.Closed = true
			e.Callback(ndn.ExpressCallbackArgs{Result: ndn.InterestResultError, Error: ErrFaceClosed{}})
		}
		return true
	})
	f.ift.RemoveIf(func(uint64, *table.IftEntry) bool { return true })
	f.rpt.RemoveIf(func(uint64, *table.RptEntry) bool { return true })
}

// maybePauseTransport is the deferred half of R2: posted whenever the
// PIT or RPT transitions to empty, it re-checks both tables on the
// next loop turn (by which time a nested callback's re-population, if
// any, has already landed) before actually pausing.
func (f *Face) maybePauseTransport() {
	if f.pit.Len() == 0 && f.rpt.Len() == 0 {
		_ = f.transport.Pause()
	}
}

// ensureRunning resumes the transport if it was paused by
// maybePauseTransport and a new PIT/RPT entry is about to be added.
func (f *Face) ensureRunning() error {
	if f.transport.State() == transport.StatePaused {
		return f.transport.Resume()
	}
	return nil
}

func (f *Face) handleFrame(frame []byte) {
	lp, err := ndn.ReadNetworkOrLpPacket(enc.NewWireView(enc.Wire{frame}))
	if err != nil {
		log.Warn("face dropped unparseable frame", "err", err)
		return
	}
	if lp.Fragment == nil {
		return
	}

	view := enc.NewWireView(lp.Fragment)
	peek := view
	typ, err := peek.ReadTLNum()
	if err != nil {
		log.Warn("face dropped frame with no TLV type", "err", err)
		return
	}

	switch typ {
	case ndn.TypeInterest:
		interest, sigCovered, err := f.spec.ReadInterest(view)
		if err != nil {
			log.Warn("face dropped unparseable interest", "err", err)
			return
		}
		f.handleInterest(interest, lp.Fragment, sigCovered, lp.Tags)
	case ndn.TypeData:
		data, sigCovered, err := f.spec.ReadData(view)
		if err != nil {
			log.Warn("face dropped unparseable data", "err", err)
			return
		}
		f.handleData(data, lp.Fragment, sigCovered)
	default:
		log.Warn("face dropped frame of unknown type", "typ", uint64(typ))
	}
}

func (f *Face) encodeAndSend(wire enc.Wire, tags ndn.PacketTags, nack *ndn.NackReason, kind, name string) error {
	framed := ndn.EncodeLpPacket(wire, tags, nack)
	if size := framed.Length(); size > transport.MaxPacketSize {
		return transport.OversizedPacketError{Kind: kind, Name: name, Size: int(size)}
	}
	if err := f.ensureRunning(); err != nil {
		return err
	}
	return f.transport.Send(framed)
}

// ErrAlreadyRunning is returned by Run on a Face that is already
// connected.
type ErrAlreadyRunning struct{}

func (ErrAlreadyRunning) Error() string { return "face is already running" }

// ErrFaceClosed is the terminal result delivered to every APP-origin
// pending Interest when the Face is shut down, and returned by any
// public operation attempted after Close.
type ErrFaceClosed struct{}

func (ErrFaceClosed) Error() string { return "face is closed" }

// interestView adapts an *ndn.EncodedInterest to the ndn.Interest
// interface the PIT matching logic expects, without round-tripping
// the just-encoded wire back through the decoder.
type interestView struct {
	enc *ndn.EncodedInterest
}

func (v interestView) Name() enc.Name     { return v.enc.FinalName }
func (v interestView) CanBePrefix() bool  { return v.enc.Config.CanBePrefix }
func (v interestView) MustBeFresh() bool  { return v.enc.Config.MustBeFresh }
func (v interestView) ForwardingHint() []enc.Name {
	return v.enc.Config.ForwardingHint
}
func (v interestView) Nonce() optional.Optional[uint32] { return v.enc.Config.Nonce }
func (v interestView) Lifetime() optional.Optional[time.Duration] {
	return v.enc.Config.Lifetime
}
func (v interestView) HopLimit() *uint {
	if v.enc.Config.HopLimit == nil {
		return nil
	}
	h := uint(*v.enc.Config.HopLimit)
	return &h
}
func (v interestView) AppParam() enc.Wire       { return nil }
func (v interestView) Signature() ndn.Signature { return nil }
