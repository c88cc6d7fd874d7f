package viewer

import (
	"net"
	"sync"
)

// MockListener is an in-process stand-in for the real viewer UI: it
// accepts connections on a loopback port, decodes exactly one message
// per connection, records it, and replies REPLY_OK — or
// RENDER_FRAME_ABORT once AbortAfter messages have been recorded, for
// exercising mid-render cancellation.
type MockListener struct {
	ln net.Listener

	mu         sync.Mutex
	received   []Message
	AbortAfter int // 0 disables; N aborts starting with the Nth received message
}

// Listen starts a MockListener on an OS-assigned loopback port. Addr()
// reports the address to dial.
func Listen() (*MockListener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	m := &MockListener{ln: ln}
	go m.serve()
	return m, nil
}

// Addr is the address a viewer.Client should dial.
func (m *MockListener) Addr() string { return m.ln.Addr().String() }

func (m *MockListener) serve() {
	for {
		conn, err := m.ln.Accept()
		if err != nil {
			return
		}
		go m.handle(conn)
	}
}

func (m *MockListener) handle(conn net.Conn) {
	defer conn.Close()

	msg, err := Decode(conn)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.received = append(m.received, msg)
	n := len(m.received)
	abort := m.AbortAfter > 0 && n >= m.AbortAfter
	m.mu.Unlock()

	reply := Message{Type: MsgReplyOK, FrameID: msg.FrameID}
	if abort {
		reply = Message{Type: MsgRenderFrameAbort, FrameID: msg.FrameID}
	}
	Encode(conn, reply)
}

// Received returns every message recorded so far, in arrival order.
func (m *MockListener) Received() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.received))
	copy(out, m.received)
	return out
}

// Close stops accepting new connections.
func (m *MockListener) Close() error { return m.ln.Close() }
