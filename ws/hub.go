// Package ws fans notification events out to connected clients. Delivery
// is best effort: the persisted request/ledger state is the source of
// truth, a dropped socket just means the client refreshes.
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"library-management-backend/models"
)

const writeTimeout = 5 * time.Second

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one registered connection.
type Client struct {
	mu   sync.Mutex // serializes writes on the conn
	conn *websocket.Conn
	role string
}

func (cl *Client) write(ev Event) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return cl.conn.WriteJSON(ev)
}

type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Client]struct{}
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		byUser: make(map[string]map[*Client]struct{}),
		log:    log,
	}
}

// Register adds a connection for a user and returns the handle needed to
// unregister it.
func (h *Hub) Register(userID, role string, conn *websocket.Conn) *Client {
	cl := &Client{conn: conn, role: role}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][cl] = struct{}{}
	return cl
}

func (h *Hub) Unregister(userID string, cl *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.byUser[userID]; ok {
		delete(set, cl)
		if len(set) == 0 {
			delete(h.byUser, userID)
		}
	}
	_ = cl.conn.Close()
}

// NotifyUser pushes an event to every connection of one user.
func (h *Hub) NotifyUser(userID string, ev Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, 2)
	for cl := range h.byUser[userID] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()
	h.send(targets, ev)
}

// BroadcastAdmins pushes an event to every connected admin.
func (h *Hub) BroadcastAdmins(ev Event) {
	h.mu.RLock()
	var targets []*Client
	for _, set := range h.byUser {
		for cl := range set {
			if cl.role == models.RoleAdmin {
				targets = append(targets, cl)
			}
		}
	}
	h.mu.RUnlock()
	h.send(targets, ev)
}

func (h *Hub) send(targets []*Client, ev Event) {
	for _, cl := range targets {
		if err := cl.write(ev); err != nil {
			// slow or gone; the read pump will clean up
			h.log.Debug().Err(err).Str("event", ev.Type).Msg("ws write failed")
			_ = cl.conn.Close()
		}
	}
}
