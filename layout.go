// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"math"
	"unsafe"
)

// Layout describes the byte size and alignment a target type needs.
// It is the contract between recipes and allocation helpers: helpers obtain
// memory matching the layout and nothing more.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of a sized type T.
func LayoutOf[T any]() Layout {
	var v T
	return Layout{Size: unsafe.Sizeof(v), Align: unsafe.Alignof(v)}
}

// ArrayLayoutOf returns the layout of a contiguous run of n elements of T.
// The second return is false if n is negative or the total size would
// overflow; allocation helpers treat that as a fatal programmer error.
func ArrayLayoutOf[T any](n int) (Layout, bool) {
	el := LayoutOf[T]()
	if n < 0 {
		return Layout{}, false
	}
	if el.Size != 0 && uintptr(n) > math.MaxInt/el.Size {
		return Layout{}, false
	}
	return Layout{Size: el.Size * uintptr(n), Align: el.Align}, true
}

// Extend appends next after l, padding for next's alignment.
// Returns the combined layout and the byte offset at which next begins.
// Used for header-plus-tail records.
func (l Layout) Extend(next Layout) (Layout, uintptr) {
	off := alignUp(l.Size, next.Align)
	return Layout{Size: off + next.Size, Align: max(l.Align, next.Align)}, off
}

// Pad rounds the layout size up to a multiple of its alignment.
func (l Layout) Pad() Layout {
	l.Size = alignUp(l.Size, l.Align)
	return l
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// Sizer is the optional recipe interface that reports the layout the recipe
// demands. Recipes without it default to the sized layout of the target.
// Discovered by structural assertion at the allocation boundary.
type Sizer interface {
	LayoutFor() (Layout, bool)
}

// Lener is the optional slice-recipe interface that reports the intrinsic
// element count of the source, letting helpers size the run without an
// explicit length argument.
type Lener interface {
	SourceLen() int
}

// Zeroer is the optional recipe interface asserting that, for these exact
// arguments, construction is equivalent to writing all-zero bytes. When it
// reports true, allocation helpers obtain pre-zeroed memory and skip the
// writer entirely, then trust the region as valid.
//
// The decision must be a pure function of the recipe's arguments: the same
// recipe value must always answer the same. A wrong true answer corrupts the
// target with no error signal, so implementations are expected to be proven
// by the byte-equivalence property (construct through the writer, compare
// against a zero-filled region).
type Zeroer interface {
	Zeroed() bool
}

// layoutFor resolves the layout a recipe demands for target T.
// Falls back to the sized layout when the recipe does not carry one.
func layoutFor[T any](init any) (Layout, bool) {
	if s, ok := init.(Sizer); ok {
		return s.LayoutFor()
	}
	return LayoutOf[T](), true
}

// zeroed reports whether the recipe proved the zero-fill shortcut.
// Strictly opt-in: anything without Zeroer constructs through the writer.
func zeroed(init any) bool {
	if z, ok := init.(Zeroer); ok {
		return z.Zeroed()
	}
	return false
}
