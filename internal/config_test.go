// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logcrunch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
	assert.Equal(t, zerolog.InfoLevel, config.Level())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
log_level: debug
decoder:
  initial_capacity: 80
  max_line_length: 4096
websocket:
  handshake_timeout: 3s
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", config.Addr)
	assert.Equal(t, zerolog.DebugLevel, config.Level())
	assert.Equal(t, 80, config.Decoder.InitialCapacity)
	assert.Equal(t, 4096, config.Decoder.MaxLineLength)
	assert.Equal(t, 3*time.Second, config.WebSocket.HandshakeTimeout)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().DBPath, config.DBPath)
	assert.Equal(t, DefaultConfig().WebSocket.ReadLimit, config.WebSocket.ReadLimit)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "addr: [unterminated"},
		{"bad level", "log_level: loud"},
		{"negative capacity", "decoder:\n  initial_capacity: -1"},
		{"empty addr", `addr: ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(writeConfig(t, "log_level: loud"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
