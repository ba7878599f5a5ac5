// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package strings

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds      = errors.New("index out of bounds")
	ErrCapacityOverflow = errors.New("capacity overflow")
)

// BoundsError reports an index or range argument that violates the
// logical bounds of a sequence.
type BoundsError struct {
	Op     string
	Index  int
	Length int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("strings: %s: index %d out of range with length %d", e.Op, e.Index, e.Length)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
