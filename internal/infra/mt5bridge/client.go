// Package mt5bridge is the production gateway binding: a JSON-over-
// websocket client for the bridge Expert Advisor running inside the MT5
// terminal. The connection is process-wide singleton state with an
// explicit connect/disconnect lifecycle; all calls are synchronous
// request/response, one in flight at a time.
package mt5bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

const connectAttempts = 5

// Client talks to the terminal bridge. Implements domain.Gateway.
type Client struct {
	url      string
	login    int64
	password string
	server   string
	timeout  time.Duration

	mu      sync.Mutex // serializes RPCs and guards conn/lastErr
	conn    *websocket.Conn
	lastErr string
}

// NewClient builds an unconnected client from configuration.
func NewClient(cfg *infra.Config) *Client {
	return &Client{
		url:      cfg.Bridge.WSURL,
		login:    cfg.Bridge.Login,
		password: cfg.Bridge.Password,
		server:   cfg.Bridge.Server,
		timeout:  time.Duration(cfg.Bridge.TimeoutSec) * time.Second,
	}
}

// Connect dials the bridge with backoff, performs the initialize
// handshake for the configured account, and verifies the account is
// reachable. The terminal must be running with the bridge EA attached.
func (c *Client) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			delay := infra.Backoff(attempt - 1)
			slog.Warn("bridge dial failed, retrying",
				slog.Int("attempt", attempt),
				slog.Duration("in", delay),
				slog.Any("error", lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if lastErr = c.dial(ctx); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return lastErr
	}

	var dummy struct{}
	if err := c.call(ctx, "initialize", initializeParams{
		Login:    c.login,
		Password: c.password,
		Server:   c.server,
	}, &dummy); err != nil {
		c.Close()
		return fmt.Errorf("initialize failed: %w", err)
	}

	var acc accountData
	if err := c.call(ctx, "account_info", nil, &acc); err != nil {
		c.Close()
		return fmt.Errorf("account_info failed: %w", err)
	}

	slog.Info("terminal connected",
		slog.Int64("login", acc.Login),
		slog.Float64("balance", acc.Balance),
		slog.Float64("equity", acc.Equity))
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.timeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Close tells the terminal to shut the session down and drops the
// connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	// Best effort: the terminal cleans up on socket close anyway.
	req := request{ID: uuid.NewString(), Cmd: "shutdown"}
	if data, err := json.Marshal(req); err == nil {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
		c.conn.WriteMessage(websocket.TextMessage, data)
	}

	err := c.conn.Close()
	c.conn = nil
	return err
}

// call performs one RPC: write the request, read frames until the
// response with the matching id arrives. Unsolicited frames (heartbeats)
// are skipped. The mutex keeps one RPC in flight at a time, which matches
// the engine's strictly sequential call pattern.
func (c *Client) call(ctx context.Context, cmd string, params, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return c.fail(cmd, errors.New("bridge not connected"))
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := request{ID: uuid.NewString(), Cmd: cmd, Params: params}
	data, err := json.Marshal(req)
	if err != nil {
		return c.fail(cmd, err)
	}

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return c.fail(cmd, err)
	}

	for {
		c.conn.SetReadDeadline(deadline)
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return c.fail(cmd, err)
		}

		var resp response
		if err := json.Unmarshal(msg, &resp); err != nil {
			slog.Debug("bridge: unparseable frame skipped", slog.Any("error", err))
			continue
		}
		if resp.ID != req.ID {
			continue
		}

		if !resp.OK {
			return c.fail(cmd, errors.New(resp.Error))
		}
		if out != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return c.fail(cmd, err)
			}
		}
		return nil
	}
}

// fail records the diagnostic for LastError. Must be called with the
// mutex held.
func (c *Client) fail(cmd string, err error) error {
	c.lastErr = fmt.Sprintf("%s: %v", cmd, err)
	return fmt.Errorf("bridge %s: %w", cmd, err)
}
