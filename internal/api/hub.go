/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes game state to the presentation layer.

    It maintains a registry of connected clients (browser tabs rendering
    the game) and a broadcast channel. Transactions and scheduler ticks
    feed snapshot envelopes into Broadcast; the hub fans them out to every
    connected socket. Clients act over HTTP, so inbound socket traffic is
    drained and ignored.

    Architecture:
    - Hub: the singleton manager, run as one goroutine.
    - Client: one browser connection with a buffered outbound queue.
    - ServeWs: upgrades a GET request to a WebSocket and registers it.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Message is the JSON envelope for all real-time communication.
type Message struct {
	Type    string      `json:"type"`    // Event type (e.g. "state_sync", "catalog_reload")
	Payload interface{} `json:"payload"` // The snapshot or event data
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel of outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub instance.
// Call once in main and run it as a goroutine.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// BroadcastJSON wraps the payload in the standard envelope and queues it
// for every connected client.
func (h *Hub) BroadcastJSON(msgType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("WS: marshal %s failed: %v", msgType, err)
		return
	}
	h.broadcast <- data
}

// Run is the main event loop for the Hub.
// It blocks, so it must be run in a goroutine: `go hub.Run()`
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Println("WS: New Connection Registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the connection rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs handles websocket requests from the presentation layer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames until the connection dies. Game actions
// arrive over HTTP; anything sent on the socket is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	// Range stops when c.send is closed by the Hub.
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
