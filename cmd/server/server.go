// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

// Command server is a demo log producer. It streams JSON log lines to every
// websocket client, cut into fragments that ignore line and rune boundaries.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var (
	addr        = flag.String("addr", "localhost:7779", "http service address")
	producerID  = flag.String("producer", "demo", "producer id of generated logs")
	interval    = flag.Duration("interval", time.Second, "time between generated logs")
	maxFragment = flag.Int("fragment", 16, "maximum websocket message size in bytes")
)

var upgrader = websocket.Upgrader{HandshakeTimeout: 10 * time.Second}

var messages = []string{
	"request served",
	"cache miss",
	"retrying upstream call",
	"connexion rétablie ✓",
}

type producer struct {
	logger zerolog.Logger
}

func (p *producer) ws(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Error().Err(err).Msg("upgrade failed")
		return
	}
	defer c.Close()

	logger := p.logger.With().Str("client", c.RemoteAddr().String()).Logger()
	logger.Info().Msg("client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				logger.Info().Err(err).Msg("client gone")
				return
			}
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	var pending bytes.Buffer
	for seq := 0; ; seq++ {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		line, err := json.Marshal(newLog(seq))
		if err != nil {
			logger.Error().Err(err).Msg("marshal failed")
			return
		}
		pending.Write(line)
		pending.WriteByte('\n')

		// Leave a random tail behind so lines straddle messages.
		for pending.Len() > *maxFragment/2 {
			n := 1 + rand.IntN(max(min(*maxFragment, pending.Len()), 1))
			if err := c.WriteMessage(websocket.BinaryMessage, pending.Next(n)); err != nil {
				logger.Error().Err(err).Msg("write failed")
				return
			}
		}
	}
}

func newLog(seq int) internal.Log {
	now := internal.Timestamp(float64(time.Now().UnixMicro()) / 1e6)
	log := internal.Log{
		ID:        internal.LogID{ProducerID: *producerID, SequenceNumber: seq},
		Timestamp: now,
		Level:     "info",
		Message:   messages[seq%len(messages)],
		Attrs:     map[string]any{"seq": seq},
	}

	if seq%5 == 4 {
		log.Level = "warn"
		log.FunctionCallStartedAt = now - internal.Timestamp(rand.Float64())
		log.FunctionCallEndedAt = now
	}
	return log
}

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	p := &producer{logger: logger}

	http.HandleFunc("/ws", p.ws)

	server := &http.Server{Addr: *addr, Handler: nil, ReadTimeout: 10 * time.Second}
	logger.Info().Str("addr", *addr).Msg("producing logs")
	logger.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
