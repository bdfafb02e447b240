package bingo

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Connector wraps connections so tests are easier
type Connector interface {
	Send(v interface{})
	Recv(v interface{}) error
	Close() error

	Ip() string
	Cookie(name string) (*http.Cookie, error)
}

const (
	writeWait = 10 * time.Second
	readWait  = 10 * time.Minute
	sendQueue = 16
)

// wsConn is a websocket connection that implements Connector. Sends are
// queued and written by their own goroutine so a slow browser never blocks
// the room that is broadcasting to it.
type wsConn struct {
	conn     *websocket.Conn
	sendChan chan interface{}

	closeOnce sync.Once
	done      chan struct{}
}

func NewWsConn(ws *websocket.Conn) *wsConn {
	conn := &wsConn{
		conn:     ws,
		sendChan: make(chan interface{}, sendQueue),
		done:     make(chan struct{}),
	}
	go conn.sender()
	return conn
}

func (c *wsConn) sender() {
	for {
		select {
		case data := <-c.sendChan:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := websocket.JSON.Send(c.conn, data); err != nil {
				zap.L().Debug("Send failed", zap.String("ip", c.Ip()), zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *wsConn) Send(v interface{}) {
	select {
	case c.sendChan <- v:
	case <-c.done:
	default:
		zap.L().Warn("Dropping message for slow connection", zap.String("ip", c.Ip()))
	}
}

func (c *wsConn) Recv(v interface{}) error {
	if err := c.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		return err
	}
	return websocket.JSON.Receive(c.conn, v)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

func (c *wsConn) Ip() string {
	r := c.conn.Request()
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (c *wsConn) Cookie(name string) (*http.Cookie, error) {
	return c.conn.Request().Cookie(name)
}
