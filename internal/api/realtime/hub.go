// Package realtime рассылает изменения change feed клиентам WebSocket
// и ведет сессии расчета свободных слотов.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

const sendBufferSize = 256

// Conn соединение клиента (gorilla/websocket.Conn в production)
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client одно WebSocket-соединение
type Client struct {
	ID        string
	Principal *domain.Principal // nil для анонимного клиента
	Send      chan []byte

	conn      Conn
	topics    map[string]struct{}
	closeOnce sync.Once
}

// NewClient создает клиента с буфером отправки
func NewClient(id string, principal *domain.Principal, conn Conn) *Client {
	return &Client{
		ID:        id,
		Principal: principal,
		Send:      make(chan []byte, sendBufferSize),
		conn:      conn,
		topics:    make(map[string]struct{}),
	}
}

// Close закрывает соединение, read pump завершится и снимет регистрацию
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// Hub топики и подписанные на них клиенты
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> clients
	all     map[*Client]struct{}

	metrics Metrics
	logger  Logger
}

type noopMetrics struct{}

func (noopMetrics) AddRealtimeClients(float64) {}

// NewHub создает hub, metrics может быть nil
func NewHub(metrics Metrics, logger Logger) *Hub {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		metrics: metrics,
		logger:  logger,
	}
}

// Register добавляет клиента
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; ok {
		return
	}
	h.all[client] = struct{}{}
	h.metrics.AddRealtimeClients(1)
}

// Unregister удаляет клиента из всех топиков и закрывает Send
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for topic := range client.topics {
		h.removeFromTopic(topic, client)
	}
	client.topics = make(map[string]struct{})

	delete(h.all, client)
	close(client.Send)
	h.metrics.AddRealtimeClients(-1)
}

// Subscribe добавляет топики зарегистрированному клиенту
func (h *Hub) Subscribe(client *Client, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	for _, topic := range topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
		client.topics[topic] = struct{}{}
	}
}

// Unsubscribe удаляет топики клиента
func (h *Hub) Unsubscribe(client *Client, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range topics {
		h.removeFromTopic(topic, client)
		delete(client.topics, topic)
	}
}

func (h *Hub) removeFromTopic(topic string, client *Client) {
	subscribers, ok := h.clients[topic]
	if !ok {
		return
	}
	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.clients, topic)
	}
}

// Broadcast отправляет сообщение подписчикам топика.
// Клиент с заполненным буфером пропускает сообщение.
func (h *Hub) Broadcast(topic string, msg ServerMessage) {
	msg.Topic = topic
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("realtime: failed to marshal message for topic=%s: %v", topic, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("realtime: send buffer full, dropping message for client=%s topic=%s", client.ID, topic)
		}
	}
}

// SendTo отправляет сообщение одному клиенту, false если клиент отключен или буфер полон
func (h *Hub) SendTo(client *Client, msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("realtime: failed to marshal message for client=%s: %v", client.ID, err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.all[client]; !ok {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		h.logger.Warn("realtime: send buffer full, dropping direct message for client=%s", client.ID)
		return false
	}
}

// ClientCount число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount число подписчиков топика
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
