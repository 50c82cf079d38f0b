package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4096
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are checked by middleware.WebSocketCORSCheck before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection bound to one table.
type Client struct {
	conn    *websocket.Conn
	tableID string
	runner  *TableRunner
	send    chan []byte
	hub     *Hub

	closeOnce sync.Once
	done      chan struct{}
}

// Hub tracks the tables currently being played on this node.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // tableID -> Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register binds a client to its table, closing any older connection for the
// same table.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old, exists := h.clients[c.tableID]
	h.clients[c.tableID] = c
	h.mu.Unlock()

	if exists && old != c {
		log.Infof("[WS] Table %s reconnecting - closing old connection", c.tableID)
		old.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
			time.Now().Add(time.Second))
		old.shutdown()
	}
	log.Infof("[WS] Table %s connected (active=%d)", c.tableID, h.Count())
}

// Unregister forgets c if it is still the table's current client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.tableID]; ok && cur == c {
		delete(h.clients, c.tableID)
	}
}

// Count returns the number of live tables.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WSMessage is the envelope for every message in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// enqueue hands a frame to the write pump, dropping it when the client is
// slow. Snapshots are superseded by the next frame anyway.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Debugf("[WS] send buffer full for table %s, dropping frame", c.tableID)
		return false
	}
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warnf("[WS] write error for table %s: %v", c.tableID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warnf("[WS] ping error for table %s: %v", c.tableID, err)
				return
			}
		}
	}
}

// readPump turns incoming messages into table events until the connection
// drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.shutdown()
		log.Infof("[WS] Table %s disconnected", c.tableID)
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("[WS] unexpected close for table %s: %v", c.tableID, err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		ev, err := c.runner.Decode(msg)
		if err != nil {
			c.sendError(err.Error())
			continue
		}
		if !c.runner.Submit(ev) {
			log.Debugf("[WS] input queue full for table %s, dropping %s", c.tableID, ev.Kind)
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	c.enqueue(data)
}
