// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package strings

import (
	"fmt"
	"math"
)

// maxCapacity is the largest rune count whose byte size fits in an int.
const maxCapacity = math.MaxInt >> 2

// AppendBuffer is a growable, append-only rune buffer that doubles as a
// read-only CharSequence over its first Len() runes.
//
// Reset only rewinds the logical length, so a single AppendBuffer can
// accumulate line after line without reallocating once it has grown to
// the longest line seen. The zero value is an empty buffer with no capacity.
//
// XXX: AppendBuffer is not thread-safe.
type AppendBuffer struct {
	chars []rune
	pos   int
}

// NewAppendBuffer returns an empty buffer backed by exactly capacity runes.
func NewAppendBuffer(capacity int) *AppendBuffer {
	if capacity < 0 {
		panic("strings.NewAppendBuffer: negative capacity")
	}
	return &AppendBuffer{chars: make([]rune, capacity)}
}

func (b *AppendBuffer) Len() int {
	return b.pos
}

// Cap returns the size of the backing storage.
func (b *AppendBuffer) Cap() int {
	return len(b.chars)
}

func (b *AppendBuffer) CharAt(index int) (rune, error) {
	if index < 0 || index >= b.pos {
		return 0, &BoundsError{Op: "char at", Index: index, Length: b.pos}
	}
	return b.chars[index], nil
}

// Slice returns a new buffer holding a copy of runes [start, end).
// The copy has no spare capacity and shares nothing with b.
func (b *AppendBuffer) Slice(start, end int) (*AppendBuffer, error) {
	if err := checkRange("slice", start, end, b.pos); err != nil {
		return nil, err
	}
	chars := make([]rune, end-start)
	copy(chars, b.chars[start:end])
	return &AppendBuffer{chars: chars, pos: len(chars)}, nil
}

func (b *AppendBuffer) SubSequence(start, end int) (CharSequence, error) {
	s, err := b.Slice(start, end)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b *AppendBuffer) AppendRune(c rune) error {
	if err := b.ensure("append rune", 1); err != nil {
		return err
	}
	b.chars[b.pos] = c
	b.pos++
	return nil
}

// AppendString appends the runes of s.
func (b *AppendBuffer) AppendString(s string) error {
	for _, c := range s {
		if err := b.AppendRune(c); err != nil {
			return err
		}
	}
	return nil
}

func (b *AppendBuffer) AppendSequence(csq CharSequence) error {
	return b.AppendRange(csq, 0, csq.Len())
}

// AppendRange appends runes [start, end) of csq. Another *AppendBuffer is
// block-copied from its storage; any other CharSequence is read rune by rune.
// On error the logical content of b is unchanged.
func (b *AppendBuffer) AppendRange(csq CharSequence, start, end int) error {
	if csq.Len() < end {
		return &BoundsError{Op: "append range", Index: end, Length: csq.Len()}
	}
	if start < 0 || start > end {
		return &BoundsError{Op: "append range", Index: start, Length: csq.Len()}
	}

	n := end - start
	if err := b.ensure("append range", n); err != nil {
		return err
	}

	if src, ok := csq.(*AppendBuffer); ok {
		copy(b.chars[b.pos:], src.chars[start:end])
		b.pos += n
		return nil
	}

	for i := start; i < end; i++ {
		c, err := csq.CharAt(i)
		if err != nil {
			return err
		}
		b.chars[b.pos+i-start] = c
	}
	b.pos += n
	return nil
}

// Reset empties the buffer. The backing storage is kept for reuse.
func (b *AppendBuffer) Reset() {
	b.pos = 0
}

// Substring returns runes [start, end) as a string.
//
// The requested length end-start, not end itself, is checked against Len(),
// so a range may reach past Len() into storage left over from before the
// last Reset, as long as it stays within Cap().
func (b *AppendBuffer) Substring(start, end int) (string, error) {
	if start < 0 || start > b.pos {
		return "", &BoundsError{Op: "substring", Index: start, Length: b.pos}
	}
	if length := end - start; length < 0 || length > b.pos || end > len(b.chars) {
		return "", &BoundsError{Op: "substring", Index: end, Length: b.pos}
	}
	return string(b.chars[start:end]), nil
}

func (b *AppendBuffer) String() string {
	return string(b.chars[:b.pos])
}

// ensure makes room for n more runes past the logical length.
func (b *AppendBuffer) ensure(op string, n int) error {
	if n <= len(b.chars)-b.pos {
		return nil
	}
	if n > maxCapacity-b.pos {
		return fmt.Errorf("strings: %s: %w", op, ErrCapacityOverflow)
	}

	capacity, err := grownCapacity(len(b.chars), b.pos+n)
	if err != nil {
		return fmt.Errorf("strings: %s: %w", op, err)
	}

	chars := make([]rune, capacity)
	copy(chars, b.chars[:b.pos])
	b.chars = chars
	return nil
}

// grownCapacity doubles capacity until it holds needed runes.
// A zero capacity becomes 1 on its first step.
func grownCapacity(capacity, needed int) (int, error) {
	if needed < 0 || needed > maxCapacity {
		return 0, ErrCapacityOverflow
	}

	for {
		if capacity == 0 {
			capacity = 1
		} else {
			capacity <<= 1
		}

		if capacity <= 0 || capacity > maxCapacity {
			return 0, ErrCapacityOverflow
		}
		if capacity >= needed {
			return capacity, nil
		}
	}
}
