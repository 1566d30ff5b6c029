package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	transportws "github.com/LoSiuVincent/connect-four-mcts/internal/transport/websocket"
)

var ErrClosed = errors.New("websocket provider closed")

// WSProvider keeps one connection to /ws open and asks it for moves. Requests
// are serialised; the connection is re-dialled after a failure.
type WSProvider struct {
	url        string
	difficulty string
	test       bool
	dialer     *websocket.Dialer
	logger     zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int
	closed bool
}

type WSOption func(*WSProvider)

// WithWSTestMode asks the server for its deterministic strategy.
func WithWSTestMode(test bool) WSOption {
	return func(p *WSProvider) { p.test = test }
}

// NewWSProvider accepts an http(s) or ws(s) server URL.
func NewWSProvider(serverURL, difficulty string, opts ...WSOption) (*WSProvider, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws"

	p := &WSProvider{
		url:        u.String(),
		difficulty: difficulty,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:     log.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *WSProvider) GetComputerMove(ctx context.Context, encodedBoard string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return -1, ErrClosed
	}
	if p.conn == nil {
		conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
		if err != nil {
			return -1, fmt.Errorf("dial %s: %w", p.url, err)
		}
		p.conn = conn
	}

	p.nextID++
	move, err := p.roundTrip(ctx, transportws.ClientMessage{
		Type:       transportws.TypePredict,
		ID:         p.nextID,
		Board:      encodedBoard,
		Difficulty: p.difficulty,
		Test:       p.test,
	})
	var serverErr *ServerError
	if err != nil && !errors.As(err, &serverErr) {
		// transport failure: drop the connection so the next call re-dials
		p.conn.Close()
		p.conn = nil
	}
	return move, err
}

// ServerError is an error reply from the server; the connection stays usable.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

func (p *WSProvider) roundTrip(ctx context.Context, msg transportws.ClientMessage) (int, error) {
	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	p.conn.SetWriteDeadline(deadline)
	p.conn.SetReadDeadline(deadline)

	// unblock the read when ctx is cancelled
	stop := context.AfterFunc(ctx, func() {
		p.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := p.conn.WriteJSON(msg); err != nil {
		return -1, err
	}

	for {
		var reply transportws.ServerMessage
		if err := p.conn.ReadJSON(&reply); err != nil {
			if ctx.Err() != nil {
				return -1, ctx.Err()
			}
			return -1, err
		}
		if reply.ID != msg.ID {
			p.logger.Debug().Int("id", reply.ID).Msg("Skipping stale reply")
			continue
		}
		switch {
		case reply.Type == transportws.TypeError:
			return -1, &ServerError{Message: reply.Message}
		case reply.Type == transportws.TypeMove && reply.Move != nil:
			return *reply.Move, nil
		default:
			return -1, fmt.Errorf("unexpected reply type %q", reply.Type)
		}
	}
}

func (p *WSProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.conn == nil {
		return nil
	}
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := p.conn.Close()
	p.conn = nil
	return err
}
