// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import "sync"

// TODO: there could be a number of logs that we store in memory, and the rest is stored in a db.

// Store keeps received logs in arrival order. It is safe for concurrent use.
type Store struct {
	mu             sync.RWMutex
	logs           []Log
	lastReadOffset int
}

func NewStore(capacity int) *Store {
	return &Store{
		logs:           make([]Log, 0, capacity),
		lastReadOffset: -1,
	}
}

func (s *Store) AddLog(log Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// GetLogs returns up to limit logs in arrival order, ending offset logs
// before the newest one.
func (s *Store) GetLogs(offset int, limit int) []Log {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || limit <= 0 || offset >= len(s.logs) {
		return []Log{}
	}

	end := len(s.logs) - offset
	start := max(end-limit, 0)
	return cloneLogs(s.logs[start:end])
}

// GetUnreadLogs returns up to limit logs not yet returned by a previous call.
func (s *Store) GetUnreadLogs(limit int) []Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.lastReadOffset + 1
	if start >= len(s.logs) || limit <= 0 {
		return []Log{}
	}

	res := s.logs[start:min(start+limit, len(s.logs))]
	s.lastReadOffset += len(res)
	return cloneLogs(res)
}

func cloneLogs(logs []Log) []Log {
	return append(make([]Log, 0, len(logs)), logs...)
}
