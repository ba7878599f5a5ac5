// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/KirilStrezikozin/logcrunch/internal/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	LogLevel      string `yaml:"log_level"`
	StoreCapacity int    `yaml:"store_capacity"`

	Decoder   DecoderConfig   `yaml:"decoder"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type DecoderConfig struct {
	// Expected length of a typical line, in runes.
	InitialCapacity int `yaml:"initial_capacity"`
	// Longer lines are dropped. A trailing '\r' before the newline is
	// stripped and does not count. Zero disables the limit.
	MaxLineLength int `yaml:"max_line_length"`
}

type WebSocketConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	ReadLimit        int64         `yaml:"read_limit"`
}

func DefaultConfig() Config {
	return Config{
		Addr:          "localhost:8080",
		DBPath:        types.DefaultDBPath,
		LogLevel:      zerolog.LevelInfoValue,
		StoreCapacity: 1024,
		Decoder: DecoderConfig{
			InitialCapacity: DecoderInitialCapacity,
			MaxLineLength:   DecoderMaxLineLength,
		},
		WebSocket: WebSocketConfig{
			HandshakeTimeout: WebSocketHandshakeTimeout,
			WriteTimeout:     WebSocketWriteTimeout,
			ReadLimit:        WebSocketReadLimit,
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("error reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is empty"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.StoreCapacity < 0 {
		errs = append(errs, errors.New("store_capacity is negative"))
	}
	if c.Decoder.InitialCapacity < 0 {
		errs = append(errs, errors.New("decoder.initial_capacity is negative"))
	}
	if c.Decoder.MaxLineLength < 0 {
		errs = append(errs, errors.New("decoder.max_line_length is negative"))
	}
	if c.WebSocket.ReadLimit <= 0 {
		errs = append(errs, errors.New("websocket.read_limit must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
