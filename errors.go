// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"errors"
	"fmt"
)

// ErrInsufficient reports that an external source (sequence or queue) ran out
// of elements before the destination run was fully initialized. The writer
// rolls back every element it wrote before this error surfaces.
var ErrInsufficient = errors.New("place: source exhausted before run was full")

// LengthError reports a bulk copy whose source length does not match the
// destination run. No element is written when this error is returned.
type LengthError struct {
	Src int // elements offered by the source
	Dst int // elements in the destination run
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("place: length mismatch: source has %d elements, run has %d", e.Src, e.Dst)
}

// AllocError reports a failed allocation together with the layout that could
// not be satisfied. Emplace helpers free nothing and construct nothing when
// returning it; Must variants abort with the size class instead.
type AllocError struct {
	Layout Layout
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("place: allocation failed for size class %d (align %d)", e.Layout.Size, e.Layout.Align)
}

// TailError distinguishes which part of a header-plus-tail construction
// failed. The wrapped error is the recipe's own, unchanged.
type TailError struct {
	Part string // "header" or "tail"
	Err  error
}

func (e *TailError) Error() string {
	return fmt.Sprintf("place: %s construction failed: %v", e.Part, e.Err)
}

func (e *TailError) Unwrap() error { return e.Err }
