// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package handlers

import (
	"net/http"
	"time"

	"github.com/KirilStrezikozin/logcrunch/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)

	r.Method(http.MethodGet, types.EndpointIndex, h.Index())
	r.Method(http.MethodGet, types.EndpointStatic, h.Static())

	r.Get(types.EndpointGetConnectionURL, h.GetConnectionURL)
	r.Post(types.EndpointPostConnectionURL, h.PostConnectionURL)
	r.Get(types.EndpointGetConnectionStatus, h.GetConnectionStatus)

	r.Get(types.EndpointGetLogs, h.GetLogs)
	r.Get(types.EndpointGetUnreadLogs, h.GetUnreadLogs)

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
