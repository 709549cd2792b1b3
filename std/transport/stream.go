package transport

import (
	"fmt"
	"io"
	"net"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/log"
	ndn_io "github.com/ndn-go/face/std/utils/io"
)

// StreamTransport is a Transport over a net.Conn stream: a Unix-domain
// socket to a local forwarder, or a TCP connection to a remote one.
// Pause stops draining the socket but leaves it open; Resume restarts
// the read loop from where it left off.
type StreamTransport struct {
	base
	network string
	addr    string
	conn    net.Conn
	resume  chan struct{}
}

func NewUnixTransport(path string) *StreamTransport {
	return &StreamTransport{base: newBase(true), network: "unix", addr: path}
}

func NewTCPTransport(network, addr string) *StreamTransport {
	return &StreamTransport{base: newBase(false), network: network, addr: addr}
}

func (t *StreamTransport) String() string {
	return fmt.Sprintf("stream-transport (%s://%s)", t.network, t.addr)
}

func (t *StreamTransport) Connect(onReceive func(frame []byte) bool, onError func(err error)) error {
	if t.State() != StateClosed {
		return TransportError{Op: "Connect", Reason: "transport is not closed"}
	}
	t.setState(StateConnecting)

	c, err := net.Dial(t.network, t.addr)
	if err != nil {
		t.setState(StateFailed)
		log.Error("stream transport dial failed", "network", t.network, "addr", t.addr, "err", err)
		return err
	}

	t.conn = c
	t.onReceive = onReceive
	t.onError = onError
	t.resume = make(chan struct{})
	t.setState(StateRunning)
	log.Info("stream transport connected", "network", t.network, "addr", t.addr)
	go t.receive()

	return nil
}

func (t *StreamTransport) Close() error {
	prev := t.State()
	if prev == StateClosed {
		return nil
	}
	t.setState(StateClosed)
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

func (t *StreamTransport) Pause() error {
	if !t.compareAndSetState(StateRunning, StatePaused) {
		return TransportError{Op: "Pause", Reason: "transport is not running"}
	}
	return nil
}

func (t *StreamTransport) Resume() error {
	if !t.compareAndSetState(StatePaused, StateRunning) {
		return TransportError{Op: "Resume", Reason: "transport is not paused"}
	}
	select {
	case t.resume <- struct{}{}:
	default:
	}
	return nil
}

func (t *StreamTransport) Send(pkt enc.Wire) error {
	if t.State() != StateRunning && t.State() != StatePaused {
		return TransportError{Op: "Send", Reason: "transport is not open"}
	}
	if size := pkt.Length(); size > MaxPacketSize {
		return OversizedPacketError{Kind: "send", Size: int(size)}
	}

	t.sendMut.Lock()
	defer t.sendMut.Unlock()

	_, err := t.conn.Write(pkt.Join())
	return err
}

func (t *StreamTransport) receive() {
	defer t.setState(StateClosed)

	err := ndn_io.ReadTlvStream(t.conn, func(b []byte) bool {
		for t.State() == StatePaused {
			<-t.resume
		}
		if t.State() != StateRunning {
			return false
		}
		return t.onReceive(b)
	}, nil)

	if t.State() != StateClosed {
		if err != nil {
			t.onError(err)
		} else {
			t.onError(io.EOF)
		}
	}
}
