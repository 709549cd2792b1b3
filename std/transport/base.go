package transport

import (
	"sync"
	"sync/atomic"
)

// base is embedded by every concrete Transport. It tracks lifecycle
// state and the receive/error callbacks Connect installs, and
// serializes Send with its own mutex since concurrent writers on one
// socket is a caller bug every Transport implementation must guard
// against identically.
type base struct {
	local     bool
	state     atomic.Int32
	onReceive func(frame []byte) bool
	onError   func(err error)
	sendMut   sync.Mutex
}

func newBase(local bool) base {
	b := base{local: local}
	b.state.Store(int32(StateClosed))
	return b
}

func (b *base) IsLocal() bool { return b.local }

func (b *base) State() State { return State(b.state.Load()) }

func (b *base) setState(s State) { b.state.Store(int32(s)) }

// compareAndSetState is used for the transitions that must not race,
// e.g. two goroutines both trying to move Running -> Closed.
func (b *base) compareAndSetState(from, to State) bool {
	return b.state.CompareAndSwap(int32(from), int32(to))
}
