package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Predictor interface {
	Predict(ctx context.Context, encoded string, difficulty string, test bool) (int, error)
}

// Handler serves move predictions over a long-lived WebSocket
type Handler struct {
	Predictor Predictor
	Upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

func NewHandler(p Predictor) *Handler {
	return &Handler{
		Predictor: p,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log.With().Str("component", "ws").Logger(),
	}
}

// HandleWebSocket is the gin handler that upgrades the connection
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ws, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Upgrade error")
		return
	}

	h.handleConnection(c.Request.Context(), NewConn(ws), ws)
}

func (h *Handler) handleConnection(ctx context.Context, conn *Conn, ws *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		conn.Close()
		h.logger.Debug().Msg("Connection closed")
	}()

	// Set read deadline to detect stale connections
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.Ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("Client disconnected unexpectedly")
			}
			return
		}

		reply := h.handleMessage(ctx, data)
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn().Err(err).Msg("Write failed")
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, data []byte) ServerMessage {
	var message ClientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return ServerMessage{Type: TypeError, Message: "invalid JSON"}
	}

	switch message.Type {
	case TypePredict:
		move, err := h.Predictor.Predict(ctx, message.Board, message.Difficulty, message.Test)
		if err != nil {
			h.logger.Debug().Err(err).Str("board", message.Board).Msg("Prediction rejected")
			return ServerMessage{Type: TypeError, ID: message.ID, Message: err.Error()}
		}
		return ServerMessage{Type: TypeMove, ID: message.ID, Move: &move}
	default:
		return ServerMessage{Type: TypeError, ID: message.ID, Message: "unknown message type"}
	}
}
