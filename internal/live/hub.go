package live

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
)

// Hub tracks which recipients currently hold a live websocket connection and
// implements the engagement.Presence capability. One connection per user;
// a newer connection replaces the previous one.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *logrus.Logger
}

// NewHub creates an empty Hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Deliver hands the event to the recipient's connection if one is registered.
// The send never blocks: a full buffer counts as a failed delivery. The read
// lock is held across the send; register and unregister close send channels
// under the write lock, so no channel is closed while a send is in flight.
func (h *Hub) Deliver(recipientID string, event engagement.Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cl, ok := h.clients[recipientID]
	if !ok {
		return false
	}

	select {
	case cl.send <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	if old, ok := h.clients[cl.userID]; ok {
		close(old.send)
	}
	h.clients[cl.userID] = cl
	total := len(h.clients)
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"user_id": cl.userID, "total": total}).Debug("live client registered")
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if current, ok := h.clients[cl.userID]; ok && current == cl {
		close(cl.send)
		delete(h.clients, cl.userID)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"user_id": cl.userID, "total": total}).Debug("live client unregistered")
}
