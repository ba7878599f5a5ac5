// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package services

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/KirilStrezikozin/logcrunch/internal/types"
	"github.com/rs/zerolog"
)

type IConnectionService interface {
	GetURL() (string, error)
	SetURL(url string) (string, error)
	GetStatus() (types.ConnectionStatus, error)
	ConnectOnce()
}

// ConnectionService keeps the producer URL in the database and maintains
// the websocket connection that feeds the log service.
type ConnectionService struct {
	db        internal.DBReadWriter
	logs      ILogService
	newClient func() internal.IWebSocketClient

	logger zerolog.Logger

	once   sync.Once
	mu     sync.Mutex
	status types.ConnectionStatus
}

func NewConnectionService(
	db internal.DBReadWriter,
	logs ILogService,
	newClient func() internal.IWebSocketClient,
	parentLogger zerolog.Logger,
) *ConnectionService {
	logger := parentLogger.
		With().
		Str("service", "connection").
		Logger()

	return &ConnectionService{
		db:        db,
		logs:      logs,
		newClient: newClient,
		logger:    logger,
	}
}

func (s *ConnectionService) GetURL() (string, error) {
	var value string
	err := s.db.Get(types.ConnectionBucketName(), types.ConnectionURLKey(), func(b []byte) error {
		value = string(b)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetURL validates and stores a ws:// or wss:// URL and returns it in
// normalized form.
func (s *ConnectionService) SetURL(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", internal.ErrEmptyConnectionURL
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("error parsing connection url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("unsupported connection url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("connection url %q has no host", value)
	}

	value = u.String()
	if err := s.db.Put(types.ConnectionBucketName(), types.ConnectionURLKey(), []byte(value)); err != nil {
		return "", err
	}

	s.logger.Info().Str("url", value).Msg("connection url updated")
	return value, nil
}

func (s *ConnectionService) GetStatus() (types.ConnectionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, nil
}

// ConnectOnce makes the initial connection attempt. Later calls do nothing.
func (s *ConnectionService) ConnectOnce() {
	s.once.Do(func() {
		if err := s.Connect(); err != nil {
			s.logger.Error().Err(err).Msg("initial connection failed")
		}
	})
}

// Connect dials the stored URL and reads logs from it in the background.
func (s *ConnectionService) Connect() error {
	value, err := s.GetURL()
	if err != nil {
		return err
	}
	if value == "" {
		return internal.ErrEmptyConnectionURL
	}

	s.setStatus(types.ConnectionStatusConnecting)

	client := s.newClient()
	if err := client.Dial(value); err != nil {
		s.setStatus(types.ConnectionStatusError)
		return err
	}
	s.setStatus(types.ConnectionStatusConnected)

	go func() {
		err := s.logs.ReadLoop(client)
		if err != nil {
			s.logger.Error().Err(err).Str("url", value).Msg("read loop failed")
			s.setStatus(types.ConnectionStatusError)
		} else {
			s.setStatus(types.ConnectionStatusDisconnected)
		}

		if err := client.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("close after read loop")
		}
	}()

	return nil
}

func (s *ConnectionService) setStatus(status types.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
