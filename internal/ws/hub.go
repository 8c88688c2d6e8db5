package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/batidao/cardbridge/internal/models"
	"github.com/batidao/cardbridge/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const welcomeText = "Connected to real-time updates"

// Hub tracks the live dashboard connections and fans envelopes out to all
// of them. Register, unregister and broadcast all flow through Run's
// channel loop, so clients joining mid-broadcast and envelope ordering
// stay consistent without callers taking locks.
type Hub struct {
	clients map[string]*models.Client

	register chan *models.Client

	unregister chan *models.Client

	broadcast chan []byte

	store *store.BalanceStore

	balanceTopic string

	mu sync.RWMutex
}

func NewHub(balanceStore *store.BalanceStore, balanceTopic string) *Hub {
	return &Hub{
		clients:      make(map[string]*models.Client),
		register:     make(chan *models.Client),
		unregister:   make(chan *models.Client),
		broadcast:    make(chan []byte, 64),
		store:        balanceStore,
		balanceTopic: balanceTopic,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.greet(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.Close()
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- frame:
				default:
					log.Printf("[WS] Client %s buffer full, skipping message", client.ID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// greet queues the welcome frame and a balance snapshot frame per known
// card, so a new dashboard holds the full state before any later update.
func (h *Hub) greet(client *models.Client) {
	welcome, err := json.Marshal(models.WelcomeMessage{Message: welcomeText})
	if err != nil {
		return
	}
	client.Send <- welcome

	for _, update := range h.store.Snapshot() {
		frame, err := json.Marshal(models.Envelope{Topic: h.balanceTopic, Data: update})
		if err != nil {
			continue
		}
		select {
		case client.Send <- frame:
		default:
			log.Printf("[WS] Client %s buffer full during snapshot", client.ID)
			return
		}
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn) *models.Client {
	clientID := uuid.New().String()
	client := models.NewClient(clientID, conn)
	h.register <- client
	return client
}

func (h *Hub) UnregisterClient(client *models.Client) {
	h.unregister <- client
}

// Broadcast serializes the envelope once and queues it for every connected
// dashboard. Clients whose send buffer is full are skipped; they catch up
// from the snapshot on reconnect.
func (h *Hub) Broadcast(topic string, data interface{}) {
	frame, err := json.Marshal(models.Envelope{Topic: topic, Data: data})
	if err != nil {
		log.Printf("[WS] Failed to encode envelope for %s: %v", topic, err)
		return
	}
	h.broadcast <- frame
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
