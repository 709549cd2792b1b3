// Package transport provides the Face's link-layer connections to a
// local or remote NDN forwarder: Unix-domain and TCP streams, a
// WebSocket variant for browser-adjacent deployments, and an in-memory
// pair used by tests in place of a real forwarder.
package transport

import enc "github.com/ndn-go/face/std/encoding"

// State is the lifecycle state of a Transport.
type State int

const (
	StateClosed State = iota
	StateConnecting
	StateRunning
	StatePaused
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transport is a polymorphic connection to a forwarder or peer. The
// Face drives it through Connect once, then Send for each outgoing
// NDNLP frame and Pause/Resume to throttle delivery of incoming ones;
// Close tears the connection down for good.
type Transport interface {
	// IsLocal reports whether the transport terminates on the same
	// host as the process, which gates NFD management command
	// eligibility (only local faces may issue RIB commands).
	IsLocal() bool
	// State returns the transport's current lifecycle state.
	State() State
	// Connect opens the transport and starts delivering received
	// frames to onReceive, one fully-framed NDNLP block per call,
	// until the transport is closed or onReceive returns false.
	Connect(onReceive func(frame []byte) bool, onError func(err error)) error
	// Send transmits one already-framed packet.
	Send(pkt enc.Wire) error
	// Pause stops delivering received frames without closing the
	// underlying connection; buffered frames already read are not
	// replayed. Resume undoes it.
	Pause() error
	Resume() error
	// Close permanently shuts the transport down.
	Close() error
}
