// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package types

const (
	EndpointIndex  = "/"
	EndpointStatic = "/static/*"

	EndpointGetConnectionURL  = "/api/v1/connection/url"
	EndpointPostConnectionURL = "/api/v1/connection/url"

	EndpointGetConnectionStatus = "/api/v1/connection/status"

	EndpointGetLogs       = "/api/v1/logs"
	EndpointGetUnreadLogs = "/api/v1/logs/unread"
)
