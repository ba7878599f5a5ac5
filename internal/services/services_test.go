// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/KirilStrezikozin/logcrunch/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	line1 = `{"id": {"producer_id": "api", "sequence_number": 1}, "level": "info", "message": "started"}`
	line2 = `{"id": {"producer_id": "api", "sequence_number": 2}, "level": "warn", "message": "slow request"}`
)

var decoderConfig = internal.DecoderConfig{InitialCapacity: 8, MaxLineLength: 1024}

func newLogService(store *internal.Store) *LogService {
	return NewLogService(store, decoderConfig, zerolog.Nop())
}

type fakeReader struct {
	messages [][]byte
	err      error
}

func (r *fakeReader) Read(onRead func(messageType int, p []byte)) error {
	for _, m := range r.messages {
		onRead(2, m)
	}
	return r.err
}

type fakeClient struct {
	fakeReader
	dialErr error

	mu     sync.Mutex
	dialed string
	closed bool
}

func (c *fakeClient) Dial(urlStr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialed = urlStr
	return c.dialErr
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type memDB struct {
	values map[string][]byte
	err    error
}

func (db *memDB) Get(bucketName, key []byte, fn func([]byte) error) error {
	if db.err != nil {
		return db.err
	}
	return fn(db.values[string(bucketName)+"/"+string(key)])
}

func (db *memDB) Put(bucketName, key, value []byte) error {
	if db.err != nil {
		return db.err
	}
	if db.values == nil {
		db.values = map[string][]byte{}
	}
	db.values[string(bucketName)+"/"+string(key)] = value
	return nil
}

func TestLogService_Ingest(t *testing.T) {
	store := internal.NewStore(4)
	s := newLogService(store)

	input := line1 + "\n\nnot json\n" + line2
	require.NoError(t, s.Ingest(context.Background(), strings.NewReader(input)))

	logs := store.GetUnreadLogs(10)
	require.Len(t, logs, 2)
	assert.Equal(t, "started", logs[0].Message)
	assert.Equal(t, "slow request", logs[1].Message)
}

func TestLogService_ReadLoop_Fragments(t *testing.T) {
	store := internal.NewStore(4)
	s := newLogService(store)

	payload := line1 + "\r\n" + line2
	var messages [][]byte
	for i := 0; i < len(payload); i += 7 {
		messages = append(messages, []byte(payload[i:min(i+7, len(payload))]))
	}

	require.NoError(t, s.ReadLoop(&fakeReader{messages: messages}))

	logs := store.GetUnreadLogs(10)
	require.Len(t, logs, 2)
	assert.Equal(t, internal.LogID{ProducerID: "api", SequenceNumber: 1}, logs[0].ID)
	assert.Equal(t, internal.LogID{ProducerID: "api", SequenceNumber: 2}, logs[1].ID)
}

func TestLogService_ReadLoop_Error(t *testing.T) {
	errRead := errors.New("connection reset")
	store := internal.NewStore(4)
	s := newLogService(store)

	err := s.ReadLoop(&fakeReader{messages: [][]byte{[]byte(line1 + "\n" + line2)}, err: errRead})
	assert.ErrorIs(t, err, errRead)

	// Only the terminated line made it in.
	assert.Equal(t, 1, store.Len())
}

func TestConnectionService_URL(t *testing.T) {
	db := &memDB{}
	s := NewConnectionService(db, nil, nil, zerolog.Nop())

	value, err := s.GetURL()
	require.NoError(t, err)
	assert.Equal(t, "", value)

	tests := []struct {
		name    string
		input   string
		expect  string
		wantErr bool
	}{
		{"ws", "ws://localhost:7779/ws", "ws://localhost:7779/ws", false},
		{"trimmed", "  wss://example.com/logs  ", "wss://example.com/logs", false},
		{"empty", "   ", "", true},
		{"http scheme", "http://localhost:7779/ws", "", true},
		{"no host", "ws:///ws", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := s.SetURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, value)

			stored, err := s.GetURL()
			require.NoError(t, err)
			assert.Equal(t, tt.expect, stored)
		})
	}

	_, err = s.SetURL("")
	assert.ErrorIs(t, err, internal.ErrEmptyConnectionURL)
}

func TestConnectionService_Connect(t *testing.T) {
	store := internal.NewStore(4)
	client := &fakeClient{fakeReader: fakeReader{messages: [][]byte{[]byte(line1 + "\n")}}}
	s := NewConnectionService(&memDB{}, newLogService(store), func() internal.IWebSocketClient {
		return client
	}, zerolog.Nop())

	_, err := s.SetURL("ws://localhost:7779/ws")
	require.NoError(t, err)

	require.NoError(t, s.Connect())
	assert.Eventually(t, client.isClosed, time.Second, 10*time.Millisecond)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, types.ConnectionStatusDisconnected, status)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "ws://localhost:7779/ws", client.dialed)
}

func TestConnectionService_Connect_Errors(t *testing.T) {
	t.Run("no url", func(t *testing.T) {
		s := NewConnectionService(&memDB{}, nil, nil, zerolog.Nop())
		assert.ErrorIs(t, s.Connect(), internal.ErrEmptyConnectionURL)
	})

	t.Run("dial failure", func(t *testing.T) {
		errDial := errors.New("refused")
		client := &fakeClient{dialErr: errDial}
		s := NewConnectionService(&memDB{}, nil, func() internal.IWebSocketClient {
			return client
		}, zerolog.Nop())
		_, err := s.SetURL("ws://localhost:1/ws")
		require.NoError(t, err)

		assert.ErrorIs(t, s.Connect(), errDial)
		status, _ := s.GetStatus()
		assert.Equal(t, types.ConnectionStatusError, status)
	})

	t.Run("connect once swallows errors", func(t *testing.T) {
		db := &memDB{err: errors.New("db down")}
		s := NewConnectionService(db, nil, nil, zerolog.Nop())
		assert.NotPanics(t, s.ConnectOnce)
		assert.NotPanics(t, s.ConnectOnce)
	})
}
