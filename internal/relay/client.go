package relay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/inconshreveable/log15"

	"github.com/pradeep9868/board-game-framework/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is the actor for one websocket connection: a read loop and a
// write loop, each talking to the hub only through its Forward/
// StopRequest/Add methods, never by touching hub state directly.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn

	inbound chan []byte

	started int32
	stop    sync.Once

	log log15.Logger
}

// NewClient wraps conn as a relay actor. The caller must still call
// Start before any frames are read or written.
func NewClient(id string, conn *websocket.Conn, queueSize int) *Client {
	return &Client{
		ID:      id,
		conn:    conn,
		inbound: make(chan []byte, queueSize),
		log:     logging.New("client", "clientID", id),
	}
}

// Start admits the client to hub (replaying from lastNum if >= 0, pass
// -1 for none) and, once admitted, launches its read and write loops.
// Calling Start twice on the same Client is a programmer error and
// panics rather than silently running two read loops on one socket.
func (c *Client) Start(hub *Hub, lastNum int) error {
	if !atomic.CompareAndSwapInt32(&c.started, 0, 1) {
		panic("relay: Client.Start called more than once")
	}

	c.hub = hub
	if err := hub.Add(c, lastNum); err != nil {
		return err
	}

	go c.writeLoop()
	go c.readLoop()
	return nil
}

// deliver enqueues raw for delivery to this client without blocking the
// caller; it reports true if the client's queue was full and the client
// was dropped as a result. Called only from the owning hub's dispatcher.
func (c *Client) deliver(raw []byte) (dropped bool) {
	select {
	case c.inbound <- raw:
		return false
	default:
		c.hub.removeClient(c)
		return true
	}
}

// readLoop pumps frames off the socket and forwards them to the hub
// until the connection errors or closes, then requests its own removal
// and tears the socket down.
func (c *Client) readLoop() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("read loop ending", "error", err)
			c.requestStop()
			return
		}
		c.hub.Forward(&Message{From: c, Msg: msg})
	}
}

// writeLoop drains c.inbound to the socket, interleaving periodic pings,
// until the hub closes c.inbound (the client has been removed) or a
// write fails, then tears the socket down itself so a failure on this
// side doesn't leave the connection open waiting on readLoop's deadline.
func (c *Client) writeLoop() {
	defer c.teardown()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case raw, ok := <-c.inbound:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				c.log.Debug("write loop ending", "error", err)
				c.requestStop()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("ping failed, write loop ending", "error", err)
				c.requestStop()
				return
			}
		}
	}
}

// requestStop asks the hub to remove this client exactly once, however
// many of the read/write loops independently notice a failure.
func (c *Client) requestStop() {
	c.stop.Do(func() {
		c.hub.StopRequest(c)
	})
}

// teardown is deferred by both readLoop and writeLoop, so it runs once
// from whichever exits first and again from whichever exits second.
// drain blocks until the hub closes c.inbound (removal completes) and
// is safe to call from both: a channel tolerates concurrent receivers,
// and ranging over an already-closed, already-drained channel returns
// immediately. conn.Close is likewise safe to call more than once.
func (c *Client) teardown() {
	c.drain()
	c.conn.Close()
}

func (c *Client) drain() {
	for range c.inbound {
	}
}
