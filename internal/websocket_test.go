// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebSocketServer(t *testing.T, messages ...string) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		for _, m := range messages {
			if err := c.WriteMessage(websocket.BinaryMessage, []byte(m)); err != nil {
				return
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocketClient_Read(t *testing.T) {
	urlStr := newWebSocketServer(t, "first", "second")
	c := NewWebSocketClient(DefaultConfig().WebSocket, zerolog.Nop())

	require.NoError(t, c.Dial(urlStr))

	var got []string
	err := c.Read(func(messageType int, p []byte) {
		assert.Equal(t, websocket.BinaryMessage, messageType)
		got = append(got, string(p))
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestWebSocketClient_Errors(t *testing.T) {
	c := NewWebSocketClient(DefaultConfig().WebSocket, zerolog.Nop())

	assert.ErrorIs(t, c.Read(func(int, []byte) {}), ErrNilConnection)
	assert.ErrorIs(t, c.Close(), ErrNilConnection)

	err := c.Dial("ws://127.0.0.1:1/ws")
	var wsErr *WebSocketError
	require.ErrorAs(t, err, &wsErr)
	assert.Equal(t, "dial", wsErr.Op)

	urlStr := newWebSocketServer(t)
	require.NoError(t, c.Dial(urlStr))
	assert.ErrorIs(t, c.Dial(urlStr), ErrConnectionAlreadyEstablished)
}
