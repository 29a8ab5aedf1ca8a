// Package live fans game sheet changes out to every display watching a game.
//
// Each watcher is a Client with a buffered Send channel; the HTTP layer drains
// it into a server-sent event stream. All client bookkeeping happens on the
// Hub's Run goroutine, driven by the register, unregister and broadcast channels.
package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
)

const (
	sendBufferSize   = 32
	changeBufferSize = 64
)

// Client is one display watching one game.
type Client struct {
	GameID string
	Send   chan []byte // Closed by the hub when the client is removed
}

// NewClient creates a client for gameID. It receives nothing until registered.
func NewClient(gameID string) *Client {
	return &Client{GameID: gameID, Send: make(chan []byte, sendBufferSize)}
}

// Message is a payload for every client of one game.
type Message struct {
	GameID string
	Data   []byte
}

// Event is the JSON document sent to displays. Clock ticks carry only the
// clock; every other change carries the whole sheet.
type Event struct {
	Kind  gamesheet.ChangeKind `json:"kind"`
	Clock *clock.Update        `json:"clock,omitempty"`
	Sheet *gamesheet.Snapshot  `json:"sheet,omitempty"`
}

// Hub tracks the clients of every game.
type Hub struct {
	// gameID -> set of clients
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a hub. Call Run before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.GameID] == nil {
				h.clients[client.GameID] = make(map[*Client]bool)
			}
			h.clients[client.GameID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.GameID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Too slow to keep up; the display reconnects and gets a fresh sheet.
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.GameID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.GameID)
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for _, clients := range h.clients {
		for client := range clients {
			close(client.Send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}

// Register starts delivering a game's broadcasts to client.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister stops delivery and closes client.Send. Unknown clients are ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues data for every client watching gameID.
func (h *Hub) Broadcast(gameID string, data []byte) {
	select {
	case h.broadcast <- &Message{GameID: gameID, Data: data}:
	case <-h.done:
	}
}

// ClientCount returns how many clients watch gameID.
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}

// Watch publishes every change of s to its game's clients until s or the hub
// is closed. Session subscribers must not call back into the session, so
// changes are handed to a goroutine that builds the payload.
func (h *Hub) Watch(s *gamesheet.Session) {
	changes := make(chan gamesheet.Change, changeBufferSize)
	s.Subscribe(func(c gamesheet.Change) {
		select {
		case changes <- c:
		default:
			log.Printf("live: dropped %s change for game %s", c.Kind, c.GameID)
		}
	})

	go func() {
		for {
			select {
			case <-s.Done():
				return
			case <-h.done:
				return
			case c := <-changes:
				data, err := Encode(s, c)
				if err != nil {
					log.Printf("live: encoding %s change for game %s: %v", c.Kind, c.GameID, err)
					continue
				}
				h.Broadcast(s.GameID(), data)
			}
		}
	}()
}

// Encode renders a change as the JSON sent to displays.
func Encode(s *gamesheet.Session, c gamesheet.Change) ([]byte, error) {
	ev := Event{Kind: c.Kind}
	if c.Kind == gamesheet.ChangeClock && c.Clock != nil {
		ev.Clock = c.Clock
	} else {
		snap := s.Snapshot()
		ev.Sheet = &snap
	}
	return json.Marshal(ev)
}
