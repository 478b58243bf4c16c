package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"govtrack/internal/model"
	"govtrack/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	snapshotSize   = 5
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QuizStats is the part of the quiz service the stats feed reads from
type QuizStats interface {
	Get(ctx context.Context, id string) (*model.Quiz, error)
	TopMatches(ctx context.Context, quizID string, limit int) ([]model.MatchCount, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	stats  QuizStats
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, stats QuizStats, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		stats:  stats,
		logger: logger,
	}
}

// QuizStatsWS handles GET /v1/ws/quizzes/{id}/stats. The subscriber first
// receives the current board, then every update.
func (h *Handler) QuizStatsWS(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["id"]

	if _, err := h.stats.Get(r.Context(), quizID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, `{"error":"quiz not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load quiz", zap.String("quizId", quizID), zap.Error(err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	board, err := h.stats.TopMatches(r.Context(), quizID, snapshotSize)
	if err != nil {
		h.logger.Warn("failed to load top matches", zap.String("quizId", quizID), zap.Error(err))
		board = []model.MatchCount{}
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		QuizID: quizID,
		Send:   make(chan []byte, 256),
		Hub:    h.hub,
	}
	if snapshot, err := encode(MsgTopMatchesSnapshot, board); err == nil {
		conn.Send <- snapshot
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket closed", zap.String("quizId", conn.QuizID), zap.Error(err))
			}
			break
		}
		// the feed is one-way; client frames only keep the connection alive
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
