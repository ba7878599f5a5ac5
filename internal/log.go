// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrMissingProducerID = errors.New("missing producer id")

type (
	Timestamp float64
	LogType   int
)

const (
	LogTypeInfo LogType = iota + 1
	LogTypeMetric
)

type LogID struct {
	ProducerID     string `json:"producer_id"`
	SequenceNumber int    `json:"sequence_number"`
}

func (id LogID) String() string {
	return id.ProducerID + "#" + strconv.Itoa(id.SequenceNumber)
}

// Log is a single structured log record, received as one line of JSON.
type Log struct {
	ID LogID `json:"id"`

	Timestamp Timestamp `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`

	// Where the log was generated.
	SourceFile     string `json:"source_file,omitempty"`
	SourceLine     int    `json:"source_line,omitempty"`
	SourceFunction string `json:"source_function,omitempty"`

	// Only relevant for logs that describe function calls
	// and include performance data.
	FunctionCallStartedAt Timestamp `json:"function_call_started_at,omitempty"`
	FunctionCallEndedAt   Timestamp `json:"function_call_ended_at,omitempty"`

	// Call stack leading to the log describing a function call.
	FunctionCallStack []LogID `json:"call_stack,omitempty"`

	// Context attributes associated with the log.
	Attrs map[string]any `json:"attrs,omitempty"`

	// Flattened "a.b.c" paths of Attrs and top-level fields.
	flatAttrs map[string]any
}

// ParseLog decodes one JSON line into a Log.
func ParseLog(line string) (Log, error) {
	var log Log
	if err := json.Unmarshal([]byte(line), &log); err != nil {
		return log, fmt.Errorf("error unmarshaling log line: %w", err)
	}
	if log.ID.ProducerID == "" {
		return log, fmt.Errorf("error validating log line: %w", ErrMissingProducerID)
	}

	log.flattenAttrs()
	return log, nil
}

func (l *Log) Type() LogType {
	if l.FunctionCallStartedAt != 0 && l.FunctionCallEndedAt != 0 {
		return LogTypeMetric
	}
	return LogTypeInfo
}

// Duration of the described function call, zero for info logs.
func (l *Log) Duration() Timestamp {
	if l.Type() != LogTypeMetric {
		return 0
	}
	return l.FunctionCallEndedAt - l.FunctionCallStartedAt
}

// Attr looks up a field by its flattened path, e.g. "level" or "attrs.user.name".
func (l *Log) Attr(path string) (any, bool) {
	if l.flatAttrs == nil {
		l.flattenAttrs()
	}
	v, ok := l.flatAttrs[path]
	return v, ok
}

func (l *Log) flattenAttrs() {
	flat := map[string]any{
		"id.producer_id":           l.ID.ProducerID,
		"id.sequence_number":       l.ID.SequenceNumber,
		"timestamp":                l.Timestamp,
		"level":                    l.Level,
		"message":                  l.Message,
		"source_file":              l.SourceFile,
		"source_line":              l.SourceLine,
		"source_function":          l.SourceFunction,
		"function_call_started_at": l.FunctionCallStartedAt,
		"function_call_ended_at":   l.FunctionCallEndedAt,
		"call_stack":               nil,
	}

	flattenAttrsRecursive(l.Attrs, flat, "attrs")
	l.flatAttrs = flat
}

func flattenAttrsRecursive(attrs map[string]any, dest map[string]any, prefix string) {
	for k, v := range attrs {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch val := v.(type) {
		case string, float64, bool:
			dest[path] = val
		case []any:
			dest[path] = nil
		case map[string]any:
			flattenAttrsRecursive(val, dest, path)
		}
	}
}
