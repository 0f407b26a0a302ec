package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/domain"
	"chat-relay/protocol"
	"chat-relay/runtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client binds one WebSocket connection to the router. It implements
// contract.Sink: Send is a non-blocking push into the buffered outbound
// channel and reports false once the peer is closing or saturated.
type Client struct {
	conn   *websocket.Conn
	router *runtime.Router
	log    *slog.Logger

	id   domain.ClientID
	send chan []byte
	done chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once

	maxMessageSize int64
}

func newClient(conn *websocket.Conn, router *runtime.Router, log *slog.Logger, bufferSize int, maxMessageSize int64) *Client {
	return &Client{
		conn:           conn,
		router:         router,
		log:            log,
		send:           make(chan []byte, bufferSize),
		done:           make(chan struct{}),
		maxMessageSize: maxMessageSize,
	}
}

// Send implements contract.Sink.
func (c *Client) Send(evt protocol.Outbound) bool {
	if c.closed.Load() {
		return false
	}
	frame, err := protocol.Encode(evt)
	if err != nil {
		c.log.Error("failed to encode outbound event", "id", c.id, "error", err)
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(c.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			// Unexpected errors are logged as transport failures; the
			// actual cleanup runs once, on the close transition below.
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.router.HandleTransportError(c.id, err)
			}
			return
		}
		c.router.HandleInbound(c.id, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}

// shutdown runs the close transition exactly once, no matter how many
// paths race into it.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.router.HandleClose(c.id)
		close(c.done)
		_ = c.conn.Close()
	})
}
