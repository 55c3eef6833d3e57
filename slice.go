// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// UninitSlice wraps a memory region sized for a contiguous run of n elements
// of T, none of which is yet known to be valid. The element count is
// intrinsic to the handle.
type UninitSlice[T any] struct {
	ptr    unsafe.Pointer
	n      int
	serial Serial
	state  atomix.Uint32
}

// Over creates an UninitSlice over the memory backing s. Prior element
// values are forgotten; their destructors are the caller's concern.
func Over[T any](s []T) *UninitSlice[T] {
	return &UninitSlice[T]{
		ptr:    unsafe.Pointer(unsafe.SliceData(s)),
		n:      len(s),
		serial: nextSerial(),
	}
}

// OverRaw creates an UninitSlice from a raw base address and element count.
// Same unchecked contract as [FromRaw], extended to n elements.
func OverRaw[T any](ptr unsafe.Pointer, n int) *UninitSlice[T] {
	if n < 0 {
		panic("place: negative run length")
	}
	return &UninitSlice[T]{ptr: ptr, n: n, serial: nextSerial()}
}

func (u *UninitSlice[T]) consume() {
	if !u.state.CompareAndSwap(handleLive, handleConsumed) {
		panic(fmt.Sprintf("place: uninit slice handle consumed twice (region #%d)", u.serial))
	}
}

// Len returns the element count of the run.
func (u *UninitSlice[T]) Len() int { return u.n }

// Serial returns the region serial assigned to this handle.
func (u *UninitSlice[T]) Serial() Serial { return u.serial }

// Raw returns the base address without consuming the handle.
func (u *UninitSlice[T]) Raw() unsafe.Pointer { return u.ptr }

// uninitAt returns a raw element handle for index i. Internal: the writer is
// the only custodian that may hold element handles, one at a time, so the
// run-level exclusivity holds.
func (u *UninitSlice[T]) uninitAt(i int) *Uninit[T] {
	return &Uninit[T]{
		ptr:    unsafe.Add(u.ptr, uintptr(i)*elemSize[T]()),
		serial: u.serial,
	}
}

func elemSize[T any]() uintptr {
	var v T
	return unsafe.Sizeof(v)
}

// AssumeInit asserts that every element of the run is already valid.
// The caller's proof obligation is the same as for [Uninit.AssumeInit].
func (u *UninitSlice[T]) AssumeInit() *InitSlice[T] {
	u.consume()
	return &InitSlice[T]{ptr: u.ptr, n: u.n, serial: u.serial}
}

// CopyFrom bulk-writes src into the run. All-or-nothing: a length mismatch
// returns a *LengthError carrying both lengths and performs zero writes,
// leaving the handle live.
func (u *UninitSlice[T]) CopyFrom(src []T) (*InitSlice[T], error) {
	if len(src) != u.n {
		return nil, &LengthError{Src: len(src), Dst: u.n}
	}
	u.consume()
	copy(unsafe.Slice((*T)(u.ptr), u.n), src)
	return &InitSlice[T]{ptr: u.ptr, n: u.n, serial: u.serial}, nil
}

// TryInit dispatches construction of the whole run to the recipe.
func (u *UninitSlice[T]) TryInit(init SliceInitializer[T]) (*InitSlice[T], error) {
	return init.InitSlice(u)
}

// InitSlice wraps a memory region holding a run of live, valid elements.
// It exclusively owns the run: Drop destructs every element exactly once,
// front to back, unless ownership was relinquished first.
type InitSlice[T any] struct {
	ptr    unsafe.Pointer
	n      int
	serial Serial
	state  atomix.Uint32
}

// Len returns the element count of the run.
func (in *InitSlice[T]) Len() int { return in.n }

// Serial returns the region serial assigned to this handle.
func (in *InitSlice[T]) Serial() Serial { return in.serial }

// Slice returns the live run for reads and element mutation.
func (in *InitSlice[T]) Slice() []T {
	return unsafe.Slice((*T)(in.ptr), in.n)
}

// Drop destructs every element of the run, exactly once each, in order.
func (in *InitSlice[T]) Drop() {
	if !in.state.CompareAndSwap(handleLive, handleDropped) {
		panic(fmt.Sprintf("place: init slice handle dropped twice or after release (region #%d)", in.serial))
	}
	s := unsafe.Slice((*T)(in.ptr), in.n)
	for i := range s {
		dropInPlace(&s[i])
	}
}

// Release relinquishes destructor duty for the whole run.
func (in *InitSlice[T]) Release() {
	if !in.state.CompareAndSwap(handleLive, handleReleased) {
		panic(fmt.Sprintf("place: init slice handle released twice or after drop (region #%d)", in.serial))
	}
}

// IntoRaw relinquishes ownership and returns the run.
func (in *InitSlice[T]) IntoRaw() []T {
	in.Release()
	return unsafe.Slice((*T)(in.ptr), in.n)
}
