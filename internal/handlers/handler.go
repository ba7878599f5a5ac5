// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/KirilStrezikozin/logcrunch/internal"
	"github.com/KirilStrezikozin/logcrunch/internal/services"
	"github.com/KirilStrezikozin/logcrunch/web/templates"
	"github.com/a-h/templ"
	"github.com/rs/zerolog"
)

const (
	DefaultLogsLimit = 100
	MaxLogsLimit     = 1000
)

type Handler struct {
	logger      zerolog.Logger
	connService services.IConnectionService
	store       *internal.Store
	staticDir   string
}

func New(
	logger zerolog.Logger,
	connService services.IConnectionService,
	store *internal.Store,
	staticDir string,
) *Handler {
	return &Handler{
		logger:      logger,
		connService: connService,
		store:       store,
		staticDir:   staticDir,
	}
}

func (h *Handler) Index() http.Handler {
	return templ.Handler(templates.Index())
}

func (h *Handler) Static() http.Handler {
	fs := http.FileServer(http.Dir(h.staticDir))
	return http.StripPrefix("/static/", fs)
}

func (h *Handler) PostConnectionURL(w http.ResponseWriter, r *http.Request) {
	value := r.FormValue(templates.ConnectionURLInputName)
	value, err := h.connService.SetURL(value)

	if err != nil {
		h.logger.Error().Err(err).Msg("failed to set connection url")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.render(w, r, templates.ConnectionURLInput(value, false))
}

func (h *Handler) GetConnectionURL(w http.ResponseWriter, r *http.Request) {
	value, err := h.connService.GetURL()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get connection url")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, templates.ConnectionURLInput(value, false))

	h.connService.ConnectOnce() // Initial connection attempt.
}

func (h *Handler) GetConnectionStatus(w http.ResponseWriter, r *http.Request) {
	value, err := h.connService.GetStatus()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get connection status")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, templates.ConnectionStatus(value))
}

// GetLogs serves the newest logs. Query: offset, limit, format=json|html.
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", DefaultLogsLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeLogs(w, r, h.store.GetLogs(offset, min(limit, MaxLogsLimit)))
}

// GetUnreadLogs serves logs received since the previous call.
func (h *Handler) GetUnreadLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultLogsLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeLogs(w, r, h.store.GetUnreadLogs(min(limit, MaxLogsLimit)))
}

func (h *Handler) writeLogs(w http.ResponseWriter, r *http.Request, logs []internal.Log) {
	if r.URL.Query().Get("format") == "html" {
		h.render(w, r, templates.LogTable(logs))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(logs); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode logs")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("failed to render component")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}
