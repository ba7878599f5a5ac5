// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package types

import "time"

const (
	DefaultDBPath = "logcrunch.db"
	DBFileMode    = 0600
	DBOpenTimeout = 1 * time.Second
)

var (
	connectionBucketName = []byte("connection")
	connectionURLKey     = []byte("url")
)

func ConnectionBucketName() []byte {
	return connectionBucketName
}

func ConnectionURLKey() []byte {
	return connectionURLKey
}
