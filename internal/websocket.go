// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	WebSocketReadLimit        = 1 << 14 // 16KB
	WebSocketHandshakeTimeout = 10 * time.Second
	WebSocketWriteTimeout     = 10 * time.Second
)

type WebSocketError struct {
	Op  string
	Err error
}

func (e *WebSocketError) Error() string {
	return fmt.Sprintf("websocket client %s error: %v", e.Op, e.Err)
}

func (e *WebSocketError) Unwrap() error {
	return e.Err
}

type IWebSocketControl interface {
	Dial(urlStr string) error
	Close() error
}

type IWebSocketReader interface {
	// Read blocks, calling onRead for every message, until the connection
	// is closed. A normal closure by the server returns nil.
	Read(onRead func(messageType int, p []byte)) error
}

type IWebSocketClient interface {
	IWebSocketControl
	IWebSocketReader
}

// XXX: WebSocketClient is not inherently thread-safe.
type WebSocketClient struct {
	conn   *websocket.Conn
	server string

	logger zerolog.Logger

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadLimit        int64
}

func NewWebSocketClient(config WebSocketConfig, parentLogger zerolog.Logger) *WebSocketClient {
	logger := parentLogger.
		With().
		Str("component", "websocket_client").
		Logger()

	return &WebSocketClient{
		logger: logger,

		HandshakeTimeout: config.HandshakeTimeout,
		WriteTimeout:     config.WriteTimeout,
		ReadLimit:        config.ReadLimit,
	}
}

func (c *WebSocketClient) Dial(urlStr string) error {
	if c.conn != nil {
		return &WebSocketError{Op: "dial", Err: ErrConnectionAlreadyEstablished}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.HandshakeTimeout,
	}

	conn, _, err := dialer.Dial(urlStr, nil)
	if err != nil {
		return &WebSocketError{Op: "dial", Err: err}
	}

	conn.SetReadLimit(c.ReadLimit)
	conn.SetPingHandler(nil) // enable default ping handler

	c.conn = conn
	c.server = urlStr

	c.logger.Debug().Str("server", c.server).Msg("connection established")
	return nil
}

func (c *WebSocketClient) Read(onRead func(messageType int, p []byte)) error {
	if c.conn == nil {
		return &WebSocketError{Op: "read", Err: ErrNilConnection}
	}

	for {
		messageType, p, err := c.conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.logger.Debug().Str("server", c.server).Msg("connection closed by server")
			return nil
		}
		if err != nil {
			return &WebSocketError{Op: "read", Err: err}
		}

		c.logger.Trace().Str("server", c.server).Int("size", len(p)).Msg("message received")
		onRead(messageType, p)
	}
}

func (c *WebSocketClient) Close() error {
	if c.conn == nil {
		return &WebSocketError{Op: "close", Err: ErrNilConnection}
	}

	defer func() {
		c.conn = nil
	}()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
	writeErr := c.conn.WriteMessage(websocket.CloseMessage, msg)

	if err := c.conn.Close(); err != nil {
		return &WebSocketError{Op: "close", Err: err}
	}
	if writeErr != nil && writeErr != websocket.ErrCloseSent {
		return &WebSocketError{Op: "close", Err: writeErr}
	}

	c.logger.Debug().Str("server", c.server).Msg("connection closed")
	return nil
}
