package bingo

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// FakeConn is a Connector for tests. Queue inbound commands with Push and
// read what the server sent from Msgs.
type FakeConn struct {
	FakeIp     string
	FakeCookie *http.Cookie

	Msgs chan interface{}

	in        chan []byte
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

func NewFakeConn(ip string) *FakeConn {
	return &FakeConn{
		FakeIp: ip,
		Msgs:   make(chan interface{}, 1000),
		in:     make(chan []byte, 1000),
	}
}

// Push queues a message as if the browser sent it
func (c *FakeConn) Push(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.in <- b
	return nil
}

// Hangup makes the next Recv fail once the queued messages are drained
func (c *FakeConn) Hangup() {
	c.closeOnce.Do(func() {
		close(c.in)
	})
}

func (c *FakeConn) Send(v interface{}) {
	c.Msgs <- v
}

func (c *FakeConn) Recv(v interface{}) error {
	b, ok := <-c.in
	if !ok {
		return io.EOF
	}
	return json.Unmarshal(b, v)
}

func (c *FakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *FakeConn) Ip() string {
	return c.FakeIp
}

func (c *FakeConn) Cookie(name string) (*http.Cookie, error) {
	if c.FakeCookie == nil || c.FakeCookie.Name != name {
		return nil, http.ErrNoCookie
	}
	return c.FakeCookie, nil
}
