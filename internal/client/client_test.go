package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	transportws "github.com/LoSiuVincent/connect-four-mcts/internal/transport/websocket"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/auth"
)

const emptyBoard = "EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE"

func TestHTTPGetComputerMove(t *testing.T) {
	var got predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"move":0}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "medium", WithTestMode(true))
	move, err := c.GetComputerMove(context.Background(), emptyBoard)
	if err != nil {
		t.Fatalf("GetComputerMove: %v", err)
	}
	if move != 0 {
		t.Errorf("move = %d, want 0", move)
	}
	if got.Board != emptyBoard || got.Difficulty != "medium" || !got.Test {
		t.Errorf("request = %+v", got)
	}
}

func TestHTTPGetComputerMoveErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			"status error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid board encoding"}`))
			},
			func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.Code == 400 && se.Message == "invalid board encoding"
			},
		},
		{
			"missing move",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) },
			func(err error) bool { return err != nil },
		},
		{
			"bad json",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`nope`)) },
			func(err error) bool { return err != nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "").GetComputerMove(context.Background(), emptyBoard)
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestHTTPGetComputerMoveHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := NewHTTPClient(srv.URL, "").GetComputerMove(ctx, emptyBoard); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestHTTPSaveMatchSignsRequest(t *testing.T) {
	var saved domain.MatchResult
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := auth.ValidateServiceToken("shared", token); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&saved)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	match := domain.MatchResult{ID: "m1", Winner: domain.Computer, Reason: domain.ReasonConnectFour}
	if err := NewHTTPClient(srv.URL, "", WithServiceSecret("shared")).SaveMatch(context.Background(), match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	if saved.ID != "m1" || saved.Winner != domain.Computer {
		t.Errorf("server got %+v", saved)
	}

	err := NewHTTPClient(srv.URL, "", WithServiceSecret("wrong")).SaveMatch(context.Background(), match)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

type stubPredictor struct{}

func (stubPredictor) Predict(_ context.Context, encoded, difficulty string, test bool) (int, error) {
	if encoded != emptyBoard {
		return -1, domain.ErrInvalidBoard
	}
	if test {
		return 0, nil
	}
	if difficulty == "hard" {
		return 3, nil
	}
	return 1, nil
}

func newWSServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", transportws.NewHandler(stubPredictor{}).HandleWebSocket)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestWSProvider(t *testing.T) {
	srv := newWSServer(t)

	p, err := NewWSProvider(srv.URL, "hard")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		move, err := p.GetComputerMove(ctx, emptyBoard)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if move != 3 {
			t.Fatalf("call %d: move = %d, want 3", i, move)
		}
	}

	_, err = p.GetComputerMove(ctx, "garbage")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("err = %v, want *ServerError", err)
	}

	// a server error leaves the connection usable
	if move, err := p.GetComputerMove(ctx, emptyBoard); err != nil || move != 3 {
		t.Fatalf("after server error: move %d err %v", move, err)
	}
}

func TestWSProviderTestMode(t *testing.T) {
	srv := newWSServer(t)

	p, err := NewWSProvider(srv.URL, "hard", WithWSTestMode(true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if move, err := p.GetComputerMove(context.Background(), emptyBoard); err != nil || move != 0 {
		t.Fatalf("move %d err %v, want the test-mode answer 0", move, err)
	}
}

func TestWSProviderClosed(t *testing.T) {
	srv := newWSServer(t)
	p, err := NewWSProvider(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	p.Close()

	if _, err := p.GetComputerMove(context.Background(), emptyBoard); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestNewWSProviderURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws", false},
		{"https://example.com/", "wss://example.com/ws", false},
		{"ws://host", "ws://host/ws", false},
		{"ftp://host", "", true},
	}
	for _, tt := range tests {
		p, err := NewWSProvider(tt.in, "")
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v", tt.in, err)
			continue
		}
		if err == nil && p.url != tt.want {
			t.Errorf("%s: url = %s, want %s", tt.in, p.url, tt.want)
		}
	}
}
