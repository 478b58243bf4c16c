package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgTopMatchesSnapshot MessageType = "top_matches_snapshot"
	MsgTopMatchesUpdate   MessageType = "top_matches_update"
	MsgError              MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans quiz statistics out to every subscriber of that quiz
type Hub struct {
	subscribers map[string]map[*Connection]struct{} // quizID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once

	logger *zap.Logger
}

// Connection represents a WebSocket subscriber
type Connection struct {
	QuizID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	QuizID  string
	Message *Message
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*Connection]struct{}),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
		done:        make(chan struct{}),
		logger:      logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for quizID, conns := range h.subscribers {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.subscribers, quizID)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.subscribers[conn.QuizID] == nil {
				h.subscribers[conn.QuizID] = make(map[*Connection]struct{})
			}
			h.subscribers[conn.QuizID][conn] = struct{}{}
			n := len(h.subscribers[conn.QuizID])
			h.mu.Unlock()
			h.logger.Debug("stats subscriber connected", zap.String("quizId", conn.QuizID), zap.Int("subscribers", n))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.subscribers[conn.QuizID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.subscribers, conn.QuizID)
					}
					h.logger.Debug("stats subscriber disconnected", zap.String("quizId", conn.QuizID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("failed to encode broadcast", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.subscribers[msg.QuizID] {
				select {
				case conn.Send <- data:
				default:
					// slow subscriber, drop
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every subscriber and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Subscribers reports how many connections follow quizID
func (h *Hub) Subscribers(quizID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[quizID])
}

// BroadcastToQuiz sends a message to every subscriber of a quiz (implements service.Broadcaster)
func (h *Hub) BroadcastToQuiz(quizID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	msg := &BroadcastMessage{
		QuizID: quizID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
