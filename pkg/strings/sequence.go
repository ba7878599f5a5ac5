// Copyright 2025 The Logcrunch Authors. All rights reserved.
// Use of this source code is governed by a MIT license
// that can be found in the LICENSE file.

package strings

// CharSequence is a read-only, indexable view of runes.
type CharSequence interface {
	Len() int
	CharAt(index int) (rune, error)
	SubSequence(start, end int) (CharSequence, error)
}

// Runes adapts a rune slice to CharSequence.
type Runes []rune

func (r Runes) Len() int {
	return len(r)
}

func (r Runes) CharAt(index int) (rune, error) {
	if index < 0 || index >= len(r) {
		return 0, &BoundsError{Op: "char at", Index: index, Length: len(r)}
	}
	return r[index], nil
}

// SubSequence returns a copy of runes [start, end).
func (r Runes) SubSequence(start, end int) (CharSequence, error) {
	if err := checkRange("sub sequence", start, end, len(r)); err != nil {
		return nil, err
	}
	return append(Runes(nil), r[start:end]...), nil
}

func checkRange(op string, start, end, length int) error {
	switch {
	case start < 0 || start > length:
		return &BoundsError{Op: op, Index: start, Length: length}
	case end < start || end > length:
		return &BoundsError{Op: op, Index: end, Length: length}
	}
	return nil
}
