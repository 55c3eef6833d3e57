// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"slices"
	"unsafe"
)

// EmplaceAppend constructs one element in place in the spare capacity of s
// and returns the slice with its length extended past it. The element never
// exists anywhere but its final slot. On recipe failure the slice comes back
// with its length untouched and the failed slot logically uninitialized.
func EmplaceAppend[T any](s []T, init Initializer[T]) ([]T, error) {
	if len(s) == cap(s) {
		s = slices.Grow(s, 1)
	}
	grown := s[: len(s)+1 : cap(s)]
	in, err := FromPtr(&grown[len(s)]).TryInit(init)
	if err != nil {
		return s, err
	}
	// The slice takes over destructor duty for the new element.
	in.Release()
	return grown, nil
}

// MustEmplaceAppend is EmplaceAppend for infallible recipes.
func MustEmplaceAppend[T any](s []T, init Initializer[T]) []T {
	s, err := EmplaceAppend(s, init)
	if err != nil {
		panic("place: infallible append recipe failed: " + err.Error())
	}
	return s
}

// ExtendFrom constructs n elements in place in the spare capacity of s with
// the run recipe and returns the slice extended past them. All or nothing:
// a failing source rolls back the elements it built and the slice comes back
// with its length untouched.
func ExtendFrom[T any](s []T, n int, init SliceInitializer[T]) ([]T, error) {
	if n < 0 {
		panic("place: negative extension length")
	}
	if n == 0 {
		return s, nil
	}
	s = slices.Grow(s, n)
	spare := OverRaw[T](
		unsafe.Add(unsafe.Pointer(unsafe.SliceData(s)), uintptr(len(s))*elemSize[T]()),
		n,
	)
	in, err := init.InitSlice(spare)
	if err != nil {
		return s, err
	}
	in.Release()
	return s[: len(s)+n : cap(s)], nil
}
