// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/KirilStrezikozin/logcrunch/pkg/strings"
	"github.com/rs/zerolog"
)

const (
	DecoderInitialCapacity = 256
	DecoderMaxLineLength   = 1 << 16 // 64K runes
	DecoderReadSize        = 1 << 15 // 32KB
)

type DecoderError struct {
	Op  string
	Err error
}

func (e *DecoderError) Error() string {
	return fmt.Sprintf("line decoder %s: %v", e.Op, e.Err)
}

func (e *DecoderError) Unwrap() error {
	return e.Err
}

type DecoderStat struct {
	LinesTotal   int64
	LinesTooLong int64
}

func (s DecoderStat) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("lines_total", s.LinesTotal).
		Int64("lines_too_long", s.LinesTooLong)
}

// LineDecoder splits a UTF-8 byte stream into lines. Input may arrive in
// arbitrary fragments; a rune or a line split across two Decode calls is
// reassembled. Lines are terminated by '\n', and one trailing '\r' is dropped.
//
// XXX: LineDecoder is not thread-safe. Give each stream its own decoder.
type LineDecoder struct {
	chunk *strings.AppendBuffer // runes of the current Decode call
	line  *strings.AppendBuffer // runes of the line in progress

	// Bytes of a rune left incomplete at the end of the last Decode call.
	pending []byte

	// Lines longer than maxLength runes, not counting a dropped trailing
	// '\r', are discarded. Zero means no limit.
	maxLength  int
	discarding bool

	stat DecoderStat
}

func NewLineDecoder(initialCapacity, maxLength int) *LineDecoder {
	return &LineDecoder{
		chunk:     strings.NewAppendBuffer(initialCapacity),
		line:      strings.NewAppendBuffer(initialCapacity),
		pending:   make([]byte, 0, utf8.UTFMax),
		maxLength: max(maxLength, 0),
	}
}

func (d *LineDecoder) Stat() DecoderStat {
	return d.stat
}

// Decode consumes p and calls emit for every line it completes.
// An error returned by emit stops decoding and is returned as is.
func (d *LineDecoder) Decode(p []byte, emit func(line string) error) error {
	if err := d.decodeRunes(p); err != nil {
		return &DecoderError{Op: "decode", Err: err}
	}

	n := d.chunk.Len()
	start := 0
	for i := 0; i < n; i++ {
		c, err := d.chunk.CharAt(i)
		if err != nil {
			return &DecoderError{Op: "decode", Err: err}
		}
		if c != '\n' {
			continue
		}

		if err := d.appendSegment(start, i); err != nil {
			return err
		}
		start = i + 1

		if err := d.endLine(emit); err != nil {
			return err
		}
	}

	return d.appendSegment(start, n)
}

// Flush emits the unterminated line in progress, if any. Bytes of an
// incomplete trailing rune are decoded as utf8.RuneError.
func (d *LineDecoder) Flush(emit func(line string) error) error {
	if len(d.pending) > 0 {
		d.pending = d.pending[:0]
		switch {
		case d.discarding:
		case !d.fits(1):
			d.discarding = true
			d.line.Reset()
		default:
			if err := d.line.AppendRune(utf8.RuneError); err != nil {
				return &DecoderError{Op: "flush", Err: err}
			}
		}
	}

	if d.line.Len() == 0 && !d.discarding {
		return nil
	}
	return d.endLine(emit)
}

// Scan decodes r until EOF and flushes the last line.
// The context is checked between reads.
func (d *LineDecoder) Scan(ctx context.Context, r io.Reader, emit func(line string) error) error {
	buf := make([]byte, DecoderReadSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			if err := d.Decode(buf[:n], emit); err != nil {
				return err
			}
		}

		if errors.Is(err, io.EOF) {
			return d.Flush(emit)
		}
		if err != nil {
			return &DecoderError{Op: "read", Err: err}
		}
	}
}

// decodeRunes replaces the content of d.chunk with the runes of p,
// completing a rune carried over in d.pending first.
func (d *LineDecoder) decodeRunes(p []byte) error {
	d.chunk.Reset()

	for len(d.pending) > 0 && len(p) > 0 {
		d.pending = append(d.pending, p[0])
		p = p[1:]

		if !utf8.FullRune(d.pending) {
			continue
		}

		rest, err := d.appendRunes(d.pending)
		if err != nil {
			return err
		}
		d.pending = append(d.pending[:0], rest...)
	}

	if len(d.pending) > 0 {
		return nil
	}

	rest, err := d.appendRunes(p)
	if err != nil {
		return err
	}
	d.pending = append(d.pending, rest...)
	return nil
}

// appendRunes appends the complete runes of p to d.chunk and returns
// the incomplete tail.
func (d *LineDecoder) appendRunes(p []byte) ([]byte, error) {
	for len(p) > 0 && utf8.FullRune(p) {
		c, size := utf8.DecodeRune(p)
		if err := d.chunk.AppendRune(c); err != nil {
			return nil, err
		}
		p = p[size:]
	}
	return p, nil
}

func (d *LineDecoder) appendSegment(start, end int) error {
	if d.discarding || start == end {
		return nil
	}

	if !d.fits(end - start) {
		d.discarding = true
		d.line.Reset()
		return nil
	}

	if err := d.line.AppendRange(d.chunk, start, end); err != nil {
		return &DecoderError{Op: "append", Err: err}
	}
	return nil
}

// fits reports whether n more runes keep the line within maxLength.
// One extra rune is allowed for a trailing '\r' that endLine may drop;
// endLine checks the final length.
func (d *LineDecoder) fits(n int) bool {
	return d.maxLength == 0 || d.line.Len()+n <= d.maxLength+1
}

func (d *LineDecoder) endLine(emit func(line string) error) error {
	d.stat.LinesTotal++

	n := d.line.Len()
	if c, err := d.line.CharAt(n - 1); err == nil && c == '\r' {
		n--
	}

	if d.discarding || (d.maxLength > 0 && n > d.maxLength) {
		d.discarding = false
		d.line.Reset()
		d.stat.LinesTooLong++
		return nil
	}

	line, err := d.line.Substring(0, n)
	if err != nil {
		return &DecoderError{Op: "extract", Err: err}
	}
	d.line.Reset()

	return emit(line)
}
