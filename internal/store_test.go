// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newLog(seq int) Log {
	return Log{ID: LogID{ProducerID: "test", SequenceNumber: seq}}
}

func newStore(initialCount int) *Store {
	s := NewStore(10)
	for i := range initialCount {
		s.AddLog(newLog(i))
	}
	return s
}

func TestStore_GetLogs(t *testing.T) {
	s := newStore(5)

	tests := []struct {
		name   string
		offset int
		limit  int
		expect []Log
	}{
		{"invalid offset", -1, 2, []Log{}},
		{"invalid limit", 1, 0, []Log{}},
		{"offset past end", 5, 2, []Log{}},
		{"newest window", 0, 2, []Log{newLog(3), newLog(4)}},
		{"shifted window", 1, 2, []Log{newLog(2), newLog(3)}},
		{"window clamped at oldest", 2, 4, []Log{newLog(0), newLog(1), newLog(2)}},
		{"everything", 0, 10, []Log{newLog(0), newLog(1), newLog(2), newLog(3), newLog(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.GetLogs(tt.offset, tt.limit)
			assert.Equal(t, tt.expect, res)
		})
	}
}

func TestStore_GetLogs_ReturnsCopy(t *testing.T) {
	s := newStore(2)
	res := s.GetLogs(0, 2)
	res[0].Message = "changed"

	assert.Equal(t, newLog(0), s.GetLogs(1, 1)[0])
}

func TestStore_GetUnreadLogs(t *testing.T) {
	t.Run("no logs", func(t *testing.T) {
		s := NewStore(10)
		res := s.GetUnreadLogs(3)
		assert.Len(t, res, 0)
	})

	t.Run("initial read all", func(t *testing.T) {
		s := newStore(4)
		assert.Equal(t, newStore(4).logs, s.GetUnreadLogs(10))
	})

	t.Run("no unread remaining", func(t *testing.T) {
		s := newStore(4)
		_ = s.GetUnreadLogs(10)
		assert.Len(t, s.GetUnreadLogs(5), 0)
	})

	t.Run("new logs partial then full", func(t *testing.T) {
		s := newStore(4)
		_ = s.GetUnreadLogs(10)

		s.AddLog(newLog(4))
		s.AddLog(newLog(5))

		assert.Equal(t, []Log{newLog(4)}, s.GetUnreadLogs(1))
		assert.Equal(t, []Log{newLog(5)}, s.GetUnreadLogs(10))
	})
}

func TestStore_ConcurrentAdd(t *testing.T) {
	s := NewStore(0)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				s.AddLog(newLog(i*100 + j))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, s.Len())
}
