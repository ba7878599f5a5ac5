// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package services

import (
	"context"
	"io"
	"strings"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/rs/zerolog"
)

type ILogService interface {
	Ingest(ctx context.Context, r io.Reader) error
	ReadLoop(wsClient internal.IWebSocketReader) error
}

// LogService turns streams of JSON lines into logs in the store.
// Each stream gets its own line decoder, so streams may be ingested concurrently.
type LogService struct {
	store   *internal.Store
	decoder internal.DecoderConfig
	logger  zerolog.Logger
}

func NewLogService(
	store *internal.Store,
	decoder internal.DecoderConfig,
	parentLogger zerolog.Logger,
) *LogService {
	logger := parentLogger.
		With().
		Str("service", "log").
		Logger()

	return &LogService{
		store:   store,
		decoder: decoder,
		logger:  logger,
	}
}

// Ingest reads logs from r until EOF or until ctx is done.
func (s *LogService) Ingest(ctx context.Context, r io.Reader) error {
	d := s.newDecoder()
	defer s.logStat(d, "stream")

	return d.Scan(ctx, r, s.handleLine)
}

// ReadLoop reads logs from websocket messages until the connection closes.
// Messages are treated as fragments of one stream: a message may carry
// several lines, or a line may span several messages.
func (s *LogService) ReadLoop(wsClient internal.IWebSocketReader) error {
	d := s.newDecoder()
	defer s.logStat(d, "websocket")

	var decodeErr error
	err := wsClient.Read(func(messageType int, p []byte) {
		if decodeErr != nil {
			return
		}
		decodeErr = d.Decode(p, s.handleLine)
	})
	if decodeErr != nil {
		return decodeErr
	}
	if err != nil {
		return err
	}

	return d.Flush(s.handleLine)
}

func (s *LogService) newDecoder() *internal.LineDecoder {
	return internal.NewLineDecoder(s.decoder.InitialCapacity, s.decoder.MaxLineLength)
}

func (s *LogService) handleLine(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	log, err := internal.ParseLog(line)
	if err != nil {
		s.logger.Error().Err(err).Str("data", line).Msg("unparsable log data, skipping")
		return nil
	}

	s.logger.Debug().Stringer("id", log.ID).Msg("log received")
	s.store.AddLog(log)
	return nil
}

func (s *LogService) logStat(d *internal.LineDecoder, source string) {
	stat := d.Stat()
	event := s.logger.Info()
	if stat.LinesTooLong > 0 {
		event = s.logger.Warn()
	}
	event.Str("source", source).Object("stat", stat).Msg("ingestion finished")
}
