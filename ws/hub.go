package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"jobh_backend/internal/logger"
)

// Message - конверт события, уходящего в сокет
type Message struct {
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sentAt"`
}

// Hub держит открытые соединения по пользователям: у одного пользователя
// может быть несколько вкладок
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			total := len(set)
			h.mu.Unlock()
			logger.Debug("websocket client registered", "user_id", client.UserID, "connections", total)

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for userID, set := range h.clients {
				for client := range set {
					close(client.Send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	close(client.Send)
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	logger.Debug("websocket client unregistered", "user_id", client.UserID, "connections", len(set))
}

// Register возвращает false, если хаб уже остановлен
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser доставляет событие во все локальные соединения пользователя.
// Пользователь без соединений ошибкой не считается.
func (h *Hub) SendToUser(ctx context.Context, userID, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return h.deliver(userID, Message{Event: event, Data: data, SentAt: time.Now().UTC()})
}

func (h *Hub) deliver(userID string, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- raw:
		default:
			// медленный клиент отключается
			go h.Unregister(client)
			logger.Warn("websocket client dropped due to full send channel", "user_id", userID)
		}
	}
	return nil
}

// ClientCount - число открытых соединений пользователя
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) IsUserConnected(userID string) bool {
	return h.ClientCount(userID) > 0
}
