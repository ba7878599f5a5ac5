// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/KirilStrezikozin/logcrunch/internal/handlers"
	"github.com/KirilStrezikozin/logcrunch/internal/services"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "", "path to a yaml config file")
	addr       = flag.String("addr", "", "http service address (overrides config)")
	dbPath     = flag.String("db", "", "database file path (overrides config)")
	level      = flag.String("level", "", "log level (overrides config)")
	input      = flag.String("input", "", "ingest JSON lines from this file, or - for stdin")
	staticDir  = flag.String("static", "web/static", "static files directory")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config failed")
	}
	overrideConfig(&config)
	if err := config.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	logger = logger.Level(config.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatal().Err(err).Msg("logcrunch failed")
	}
}

func overrideConfig(config *internal.Config) {
	if *addr != "" {
		config.Addr = *addr
	}
	if *dbPath != "" {
		config.DBPath = *dbPath
	}
	if *level != "" {
		config.LogLevel = *level
	}
}

func run(ctx context.Context, config internal.Config, logger zerolog.Logger) error {
	db := internal.NewBoltDB(config.DBPath)
	if err := db.Open(); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("close db failed")
		}
	}()

	store := internal.NewStore(config.StoreCapacity)
	logService := services.NewLogService(store, config.Decoder, logger)
	connService := services.NewConnectionService(db, logService, func() internal.IWebSocketClient {
		return internal.NewWebSocketClient(config.WebSocket, logger)
	}, logger)

	handler := handlers.New(logger, connService, store, *staticDir)
	server := &http.Server{
		Addr:         config.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", config.Addr).Msg("serving")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if *input != "" {
		g.Go(func() error {
			r, closeInput, err := openInput(*input)
			if err != nil {
				return err
			}
			defer closeInput()

			err = logService.Ingest(gCtx, r)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}
