package websocket

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubPredictor struct {
	move int
	err  error
}

func (s stubPredictor) Predict(_ context.Context, encoded, _ string, _ bool) (int, error) {
	if s.err != nil {
		return -1, s.err
	}
	return s.move, nil
}

func dial(t *testing.T, p Predictor) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", NewHandler(p).HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

func TestPredictOverWebSocket(t *testing.T) {
	ws := dial(t, stubPredictor{move: 4})

	if err := ws.WriteJSON(ClientMessage{Type: TypePredict, ID: 1, Board: "b"}); err != nil {
		t.Fatal(err)
	}
	var reply ServerMessage
	if err := ws.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Type != TypeMove || reply.ID != 1 || reply.Move == nil || *reply.Move != 4 {
		t.Fatalf("reply = %+v", reply)
	}

	// the connection stays open for further requests
	if err := ws.WriteJSON(ClientMessage{Type: TypePredict, ID: 2, Board: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := ws.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.ID != 2 {
		t.Fatalf("second reply id = %d", reply.ID)
	}
}

func TestWebSocketErrors(t *testing.T) {
	ws := dial(t, stubPredictor{err: errors.New("invalid board encoding")})

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{"bad json", "{", "invalid JSON"},
		{"unknown type", `{"type":"hello"}`, "unknown message type"},
		{"predictor error", `{"type":"predict","board":"x"}`, "invalid board encoding"},
	}
	for _, tt := range tests {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(tt.raw)); err != nil {
			t.Fatal(err)
		}
		var reply ServerMessage
		if err := ws.ReadJSON(&reply); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if reply.Type != TypeError || reply.Message != tt.wantMsg {
			t.Errorf("%s: reply = %+v", tt.name, reply)
		}
		if reply.Move != nil {
			t.Errorf("%s: error reply carries a move", tt.name)
		}
	}
}

func TestNumericIDEchoed(t *testing.T) {
	ws := dial(t, stubPredictor{move: 2})

	raw := `{"type":"predict","id":7,"board":"b","test":true}`
	if err := ws.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, `"id":7`) || !strings.Contains(got, `"move":2`) {
		t.Fatalf("reply = %s, want the numeric id echoed", got)
	}
}
