package transport

import (
	"io"

	"github.com/gorilla/websocket"
	enc "github.com/ndn-go/face/std/encoding"
)

// WebSocketTransport is a Transport backed by a gorilla/websocket
// connection, used for browser-adjacent deployments of this Face
// where a raw TCP or Unix socket is unavailable.
type WebSocketTransport struct {
	base
	url    string
	conn   *websocket.Conn
	resume chan struct{}
}

func NewWebSocketTransport(url string) *WebSocketTransport {
	return &WebSocketTransport{base: newBase(false), url: url}
}

func (t *WebSocketTransport) Connect(onReceive func(frame []byte) bool, onError func(err error)) error {
	if t.State() != StateClosed {
		return TransportError{Op: "Connect", Reason: "transport is not closed"}
	}
	t.setState(StateConnecting)

	c, _, err := websocket.DefaultDialer.Dial(t.url, nil)
	if err != nil {
		t.setState(StateFailed)
		return err
	}

	t.conn = c
	t.onReceive = onReceive
	t.onError = onError
	t.resume = make(chan struct{})
	t.setState(StateRunning)
	go t.receive()

	return nil
}

func (t *WebSocketTransport) Close() error {
	if t.State() == StateClosed {
		return nil
	}
	t.setState(StateClosed)
	return t.conn.Close()
}

func (t *WebSocketTransport) Pause() error {
	if !t.compareAndSetState(StateRunning, StatePaused) {
		return TransportError{Op: "Pause", Reason: "transport is not running"}
	}
	return nil
}

func (t *WebSocketTransport) Resume() error {
	if !t.compareAndSetState(StatePaused, StateRunning) {
		return TransportError{Op: "Resume", Reason: "transport is not paused"}
	}
	select {
	case t.resume <- struct{}{}:
	default:
	}
	return nil
}

func (t *WebSocketTransport) Send(pkt enc.Wire) error {
	if t.State() != StateRunning && t.State() != StatePaused {
		return TransportError{Op: "Send", Reason: "transport is not open"}
	}
	if size := pkt.Length(); size > MaxPacketSize {
		return OversizedPacketError{Kind: "send", Size: int(size)}
	}

	t.sendMut.Lock()
	defer t.sendMut.Unlock()

	return t.conn.WriteMessage(websocket.BinaryMessage, pkt.Join())
}

func (t *WebSocketTransport) receive() {
	defer t.setState(StateClosed)

	for {
		for t.State() == StatePaused {
			<-t.resume
		}
		if t.State() != StateRunning {
			return
		}

		messageType, pkt, err := t.conn.ReadMessage()
		if err != nil {
			if t.State() != StateClosed {
				if err == io.EOF {
					t.onError(io.EOF)
				} else {
					t.onError(err)
				}
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		if !t.onReceive(pkt) {
			return
		}
	}
}
