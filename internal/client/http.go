// Package client talks to the prediction server on behalf of the terminal
// client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/auth"
)

const serviceTokenTTL = 5 * time.Minute

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type HTTPClient struct {
	baseURL       string
	difficulty    string
	test          bool
	serviceSecret string
	http          *http.Client
	logger        zerolog.Logger
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.http = c }
}

// WithTestMode asks the server for its deterministic strategy.
func WithTestMode(test bool) HTTPOption {
	return func(h *HTTPClient) { h.test = test }
}

func WithServiceSecret(secret string) HTTPOption {
	return func(h *HTTPClient) { h.serviceSecret = secret }
}

func NewHTTPClient(baseURL, difficulty string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		difficulty: difficulty,
		http:       &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type predictRequest struct {
	Board      string `json:"board"`
	Test       bool   `json:"test"`
	Difficulty string `json:"difficulty,omitempty"`
}

type predictResponse struct {
	Move *int `json:"move"`
}

// GetComputerMove posts the encoded board to /predict.
func (c *HTTPClient) GetComputerMove(ctx context.Context, encodedBoard string) (int, error) {
	var resp predictResponse
	err := c.do(ctx, http.MethodPost, "/predict", predictRequest{
		Board:      encodedBoard,
		Test:       c.test,
		Difficulty: c.difficulty,
	}, "", &resp)
	if err != nil {
		return -1, fmt.Errorf("predict: %w", err)
	}
	if resp.Move == nil {
		return -1, errors.New("predict: response has no move")
	}
	return *resp.Move, nil
}

// SaveMatch submits a finished match with a freshly signed service token.
func (c *HTTPClient) SaveMatch(ctx context.Context, match domain.MatchResult) error {
	token, err := auth.GenerateServiceToken(c.serviceSecret, "connect4-client", serviceTokenTTL)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/api/matches", match, token, nil); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("Request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
