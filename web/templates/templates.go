// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

// Package templates holds the HTML views of the web interface.
// Run `templ generate` after editing a .templ file.
package templates

import (
	"strconv"

	"github.com/KirilStrezikozin/logcrunch/internal"
)

const ConnectionURLInputName = "connection_url"

func logSource(log internal.Log) string {
	if log.SourceLine == 0 {
		return log.SourceFile
	}
	return log.SourceFile + ":" + strconv.Itoa(log.SourceLine)
}
