package transport

import (
	"sync"

	enc "github.com/ndn-go/face/std/encoding"
)

// DummyTransport is an in-memory Transport with no underlying socket,
// used by tests in place of a real forwarder connection. On its own it
// discards everything sent to it; attaching it to a BroadcastLink makes
// Send fan out to every other transport on the same link, simulating a
// forwarder relaying packets between faces.
type DummyTransport struct {
	base
	link *BroadcastLink
	mu   sync.Mutex
	sent [][]byte
}

func NewDummyTransport() *DummyTransport {
	return &DummyTransport{base: newBase(true)}
}

func (t *DummyTransport) Connect(onReceive func(frame []byte) bool, onError func(err error)) error {
	if t.State() != StateClosed {
		return TransportError{Op: "Connect", Reason: "transport is not closed"}
	}
	t.onReceive = onReceive
	t.onError = onError
	t.setState(StateRunning)
	return nil
}

func (t *DummyTransport) Close() error {
	if t.link != nil {
		t.link.unlink(t)
	}
	t.setState(StateClosed)
	return nil
}

func (t *DummyTransport) Pause() error {
	if !t.compareAndSetState(StateRunning, StatePaused) {
		return TransportError{Op: "Pause", Reason: "transport is not running"}
	}
	return nil
}

func (t *DummyTransport) Resume() error {
	if !t.compareAndSetState(StatePaused, StateRunning) {
		return TransportError{Op: "Resume", Reason: "transport is not paused"}
	}
	return nil
}

func (t *DummyTransport) Send(pkt enc.Wire) error {
	if t.State() != StateRunning && t.State() != StatePaused {
		return TransportError{Op: "Send", Reason: "transport is not open"}
	}
	if size := pkt.Length(); size > MaxPacketSize {
		return OversizedPacketError{Kind: "send", Size: int(size)}
	}

	buf := pkt.Join()
	t.mu.Lock()
	t.sent = append(t.sent, buf)
	t.mu.Unlock()

	if t.link != nil {
		t.link.broadcast(t, buf)
	}
	return nil
}

// Sent drains and returns every packet Send has accepted so far, in
// order. Tests use it to assert on what a producer or consumer put on
// the wire without going through a BroadcastLink.
func (t *DummyTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	ret := t.sent
	t.sent = nil
	return ret
}

// Deliver feeds a frame to this transport's installed onReceive
// callback as though it had arrived from the network, honoring Pause.
func (t *DummyTransport) Deliver(frame []byte) {
	if t.State() == StateRunning && t.onReceive != nil {
		t.onReceive(frame)
	}
}

// BroadcastLink connects a set of DummyTransports the way a single NFD
// process connects the faces attached to it: anything one member sends
// is delivered to every other member, matching ndn-cxx's
// DummyClientFace + BroadcastLink pairing generalized from a fixed
// pair to an arbitrary group.
type BroadcastLink struct {
	mu      sync.Mutex
	members []*DummyTransport
}

// NewBroadcastLink creates an empty link. Link each participating
// DummyTransport to it before any Send calls are made.
func NewBroadcastLink() *BroadcastLink {
	return &BroadcastLink{}
}

// Link attaches t to the link. It fails with AlreadyLinked if t is
// already attached to a link (its own or another one).
func (l *BroadcastLink) Link(t *DummyTransport) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.link != nil {
		return AlreadyLinked{}
	}
	t.link = l
	l.members = append(l.members, t)
	return nil
}

func (l *BroadcastLink) unlink(t *DummyTransport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, m := range l.members {
		if m == t {
			l.members = append(l.members[:i], l.members[i+1:]...)
			break
		}
	}
}

func (l *BroadcastLink) broadcast(from *DummyTransport, frame []byte) {
	l.mu.Lock()
	targets := make([]*DummyTransport, 0, len(l.members))
	for _, m := range l.members {
		if m != from {
			targets = append(targets, m)
		}
	}
	l.mu.Unlock()

	for _, m := range targets {
		m.Deliver(frame)
	}
}
