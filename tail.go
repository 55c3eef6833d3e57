// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// TailBox owns a header-plus-tail record: one allocation holding a header H
// followed by a run of n elements of T. The element count lives on the
// handle, not in the region; the region holds nothing but the two parts.
type TailBox[H, T any] struct {
	ptr    unsafe.Pointer // header; also the allocation base
	tail   unsafe.Pointer
	n      int
	alloc  Allocator
	layout Layout
	closed atomix.Uint32
}

// TailLayout returns the combined layout of a header H followed by n
// elements of T, and the byte offset of the tail. The second return is
// false if the tail layout cannot be computed.
func TailLayout[H, T any](n int) (Layout, uintptr, bool) {
	tl, ok := ArrayLayoutOf[T](n)
	if !ok {
		return Layout{}, 0, false
	}
	combined, off := LayoutOf[H]().Extend(tl)
	return combined.Pad(), off, true
}

// EmplaceTail allocates one region for a header-plus-tail record and
// constructs both parts in place: the header first, then the tail run.
//
// Failure of either part surfaces as *TailError wrapping the recipe's own
// error, after rollback: a failed tail destructs the already-built header,
// and the allocation is freed before the error returns. The zero-fill
// shortcut applies only when both recipes prove it.
func EmplaceTail[H, T any](a Allocator, n int, hInit Initializer[H], tInit SliceInitializer[T]) (*TailBox[H, T], error) {
	layout, off, ok := TailLayout[H, T](n)
	if !ok {
		panic("place: cannot compute layout for header-plus-tail record")
	}
	z := zeroed(hInit) && zeroed(tInit)
	ptr, err := a.Alloc(layout, z)
	if err != nil {
		return nil, err
	}
	box := &TailBox[H, T]{
		ptr:    ptr,
		tail:   unsafe.Add(ptr, off),
		n:      n,
		alloc:  a,
		layout: layout,
	}
	if z {
		return box, nil
	}
	hIn, err := hInit.InitInto(FromRaw[H](ptr))
	if err != nil {
		a.Free(ptr, layout)
		return nil, &TailError{Part: "header", Err: err}
	}
	tIn, err := tInit.InitSlice(OverRaw[T](box.tail, n))
	if err != nil {
		hIn.Drop()
		a.Free(ptr, layout)
		return nil, &TailError{Part: "tail", Err: err}
	}
	// The box takes over both destructor obligations.
	hIn.Release()
	tIn.Release()
	return box, nil
}

// Header returns the live header.
func (b *TailBox[H, T]) Header() *H { return (*H)(b.ptr) }

// Tail returns the live tail run.
func (b *TailBox[H, T]) Tail() []T { return unsafe.Slice((*T)(b.tail), b.n) }

// Len returns the element count of the tail.
func (b *TailBox[H, T]) Len() int { return b.n }

// PinHeader returns the no-relocation view of the header.
func (b *TailBox[H, T]) PinHeader() Pin[H] { return Pin[H]{ptr: (*H)(b.ptr)} }

// Close destructs the tail elements front to back, then the header, then
// releases the allocation. Exactly once.
func (b *TailBox[H, T]) Close() {
	if !b.closed.CompareAndSwap(0, 1) {
		panic("place: tail box closed twice")
	}
	t := unsafe.Slice((*T)(b.tail), b.n)
	for i := range t {
		dropInPlace(&t[i])
	}
	dropInPlace((*H)(b.ptr))
	b.alloc.Free(b.ptr, b.layout)
}
