// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"fmt"

	"code.hybscloud.com/atomix"
)

// Box owns a value constructed in place inside its own allocation.
// Close runs the destructor and releases the memory, exactly once.
// The value never relocates between construction and Close.
type Box[T any] struct {
	in     *Init[T]
	alloc  Allocator
	layout Layout
	closed atomix.Uint32
}

// Emplace allocates memory for a T from a and constructs the value directly
// inside it. The zero-fill shortcut applies when the recipe proves it:
// the allocation is obtained pre-zeroed and the writer path is skipped.
// On recipe failure the allocation is freed before the recipe's error
// returns, unchanged. Allocation failure surfaces as *AllocError.
//
// A recipe demanding a layout that cannot be computed is a programmer error
// and panics: it reflects a structural mismatch between recipe and target,
// not a transient condition.
func Emplace[T any](a Allocator, init Initializer[T]) (*Box[T], error) {
	layout, ok := layoutFor[T](init)
	if !ok {
		panic("place: cannot compute layout for emplace target")
	}
	z := zeroed(init)
	ptr, err := a.Alloc(layout, z)
	if err != nil {
		return nil, err
	}
	u := FromRaw[T](ptr)
	var in *Init[T]
	if z {
		// Recipe proved zero bytes form a valid T and the memory arrived
		// zeroed; the per-value write is skipped.
		in = u.AssumeInit()
	} else {
		in, err = init.InitInto(u)
		if err != nil {
			a.Free(ptr, layout)
			return nil, err
		}
	}
	return &Box[T]{in: in, alloc: a, layout: layout}, nil
}

// MustEmplace is Emplace for infallible recipes; it aborts with a diagnostic
// naming the failing size class if allocation fails.
func MustEmplace[T any](a Allocator, init Initializer[T]) *Box[T] {
	b, err := Emplace(a, init)
	if err != nil {
		panic(fmt.Sprintf("place: emplace failed: %v", err))
	}
	return b
}

// Ref returns the boxed value for reads and field mutation.
func (b *Box[T]) Ref() *T { return b.in.Ref() }

// Pin returns the no-relocation view of the boxed value.
func (b *Box[T]) Pin() Pin[T] { return b.in.Pin() }

// Take moves the value out, releases the allocation, and kills the box.
// Only legal for freely relocatable values.
func (b *Box[T]) Take() T {
	if !b.closed.CompareAndSwap(0, 1) {
		panic("place: box used after close")
	}
	v := b.in.Value()
	b.alloc.Free(b.in.ptr, b.layout)
	return v
}

// Close runs the value's destructor and releases the allocation.
// A second Close panics.
func (b *Box[T]) Close() {
	if !b.closed.CompareAndSwap(0, 1) {
		panic("place: box closed twice")
	}
	ptr := b.in.ptr
	b.in.Drop()
	b.alloc.Free(ptr, b.layout)
}

// SliceBox owns a run constructed in place inside its own allocation.
type SliceBox[T any] struct {
	in     *InitSlice[T]
	alloc  Allocator
	layout Layout
	closed atomix.Uint32
}

// EmplaceSlice allocates memory for a run of n elements and populates it
// with the run recipe. The zero-fill shortcut turns the per-element writer
// loop into a single zeroed allocation when the recipe proves it. Failure
// semantics match Emplace, with the recipe responsible for rolling back the
// elements it built before its error propagates.
func EmplaceSlice[T any](a Allocator, n int, init SliceInitializer[T]) (*SliceBox[T], error) {
	layout, ok := ArrayLayoutOf[T](n)
	if !ok {
		panic("place: cannot compute layout for emplace run")
	}
	z := zeroed(init)
	ptr, err := a.Alloc(layout, z)
	if err != nil {
		return nil, err
	}
	u := OverRaw[T](ptr, n)
	var in *InitSlice[T]
	if z {
		in = u.AssumeInit()
	} else {
		in, err = init.InitSlice(u)
		if err != nil {
			a.Free(ptr, layout)
			return nil, err
		}
	}
	return &SliceBox[T]{in: in, alloc: a, layout: layout}, nil
}

// EmplaceSliceFrom is EmplaceSlice with the run length taken from the
// source recipe itself (a [Lener], e.g. [CopySlice]).
func EmplaceSliceFrom[T any](a Allocator, init SliceInitializer[T]) (*SliceBox[T], error) {
	l, ok := init.(Lener)
	if !ok {
		panic("place: run recipe carries no intrinsic length")
	}
	return EmplaceSlice(a, l.SourceLen(), init)
}

// Slice returns the boxed run.
func (b *SliceBox[T]) Slice() []T { return b.in.Slice() }

// Len returns the element count of the boxed run.
func (b *SliceBox[T]) Len() int { return b.in.Len() }

// Close destructs every element, front to back, and releases the allocation.
func (b *SliceBox[T]) Close() {
	if !b.closed.CompareAndSwap(0, 1) {
		panic("place: slice box closed twice")
	}
	ptr := b.in.ptr
	b.in.Drop()
	b.alloc.Free(ptr, b.layout)
}
