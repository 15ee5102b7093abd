package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"learnhub/internal/models"

	"github.com/gorilla/websocket"
)

// Message is the envelope exchanged over the chat socket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// A session keeps a bounded window of turns as model context.
	maxHistory = 20

	chatTimeout = 90 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatService is what the hub needs from the assistant.
type ChatService interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Hub tracks one chat session per connected user and relays messages to
// the assistant service.
type Hub struct {
	clients       map[*Client]bool
	clientsByUser map[uint]*Client
	register      chan *Client
	unregister    chan *Client
	mu            sync.RWMutex
	assistant     ChatService
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		clientsByUser: make(map[uint]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
	}
}

func (h *Hub) SetAssistant(service ChatService) {
	h.assistant = service
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  uint
	histMu  sync.Mutex
	history []models.ChatMessage
	done    chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		done:   make(chan struct{}),
	}
}

// SendMessageToUser queues a typed message for one user's session.
func (h *Hub) SendMessageToUser(userID uint, messageType string, data interface{}) {
	h.mu.RLock()
	client, exists := h.clientsByUser[userID]
	h.mu.RUnlock()
	if !exists || client == nil {
		log.Printf("No active chat session for user %d", userID)
		return
	}

	msg := Message{
		Type: messageType,
		Data: data,
	}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message for user %d: %v", userID, err)
		return
	}

	select {
	case client.send <- messageBytes:
	default:
		log.Printf("Send channel full for user %d; unregistering client", userID)
		h.unregister <- client
	}
}

// Run listens on the register and unregister channels and updates the hub
// state accordingly.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// One session per user; a new connection replaces the old one.
			if old, ok := h.clientsByUser[client.userID]; ok && old != client {
				delete(h.clients, old)
				close(old.send)
				close(old.done)
			}
			h.clients[client] = true
			h.clientsByUser[client.userID] = client
			h.mu.Unlock()
			log.Printf("Chat session opened for user %d", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if h.clientsByUser[client.userID] == client {
					delete(h.clientsByUser, client.userID)
				}
				close(client.send)
				close(client.done)
				log.Printf("Chat session closed for user %d", client.userID)
			}
			h.mu.Unlock()
		}
	}
}

// HandleWebSocket upgrades the connection and starts the session pumps.
// It must run behind the JWT middleware so user_id is in the context.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, userID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close for user %d: %v", c.userID, err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message from user %d: %v", c.userID, err)
		return
	}

	switch msg.Type {
	case "chat":
		data, ok := msg.Data.(map[string]interface{})
		if !ok {
			return
		}
		text, ok := data["content"].(string)
		if !ok || text == "" {
			return
		}

		c.histMu.Lock()
		c.history = append(c.history, models.ChatMessage{Role: "user", Content: text})
		if len(c.history) > maxHistory {
			c.history = c.history[len(c.history)-maxHistory:]
		}
		turns := make([]models.ChatMessage, len(c.history))
		copy(turns, c.history)
		c.histMu.Unlock()

		go func() {
			if c.hub.assistant == nil {
				log.Printf("Assistant service not initialized")
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
			defer cancel()

			reply, err := c.hub.assistant.Chat(ctx, turns)
			if err != nil {
				log.Printf("Assistant error for user %d: %v", c.userID, err)
				c.hub.SendMessageToUser(c.userID, "chat_error", map[string]string{
					"message": "The assistant is unavailable right now. Please try again.",
				})
				return
			}

			c.histMu.Lock()
			c.history = append(c.history, models.ChatMessage{Role: "assistant", Content: reply})
			c.histMu.Unlock()
			c.hub.SendMessageToUser(c.userID, "chat_response", map[string]string{
				"message": reply,
			})
		}()

	case "reset":
		c.histMu.Lock()
		c.history = nil
		c.histMu.Unlock()
		c.hub.SendMessageToUser(c.userID, "chat_reset", nil)

	default:
		log.Printf("Unknown message type %q from user %d", msg.Type, c.userID)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
