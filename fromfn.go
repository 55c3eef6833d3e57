// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import "reflect"

// valueInit moves a prebuilt value into place. Infallible.
type valueInit[T any] struct {
	v T
}

// Value returns a recipe that writes v into the region.
// The zero-fill decision is derived from v itself: a value that is its
// type's zero value is, in Go, all zero bytes, so the shortcut is provable
// per argument and referentially stable.
func Value[T any](v T) Initializer[T] {
	return valueInit[T]{v: v}
}

func (c valueInit[T]) InitInto(u *Uninit[T]) (*Init[T], error) {
	return u.Write(c.v), nil
}

func (c valueInit[T]) Zeroed() bool {
	return reflect.ValueOf(&c.v).Elem().IsZero()
}

// zeroInit writes the zero value. Infallible, and always zero-fill.
type zeroInit[T any] struct{}

// Zero returns a recipe that constructs the zero value of T.
// Always reports the zero-fill shortcut.
func Zero[T any]() Initializer[T] {
	return zeroInit[T]{}
}

func (zeroInit[T]) InitInto(u *Uninit[T]) (*Init[T], error) {
	var v T
	return u.Write(v), nil
}

func (zeroInit[T]) Zeroed() bool { return true }

// fnInit adapts a closure that cannot fail.
type fnInit[T any] struct {
	f func(*Uninit[T]) *Init[T]
}

// FromFunc returns a recipe backed by a closure that always succeeds.
// The closure receives the uninitialized handle and must return it
// transitioned.
func FromFunc[T any](f func(*Uninit[T]) *Init[T]) Initializer[T] {
	return fnInit[T]{f: f}
}

func (c fnInit[T]) InitInto(u *Uninit[T]) (*Init[T], error) {
	return c.f(u), nil
}

// tryFnInit adapts a fallible closure.
type tryFnInit[T any] struct {
	f func(*Uninit[T]) (*Init[T], error)
}

// TryFromFunc returns a recipe backed by a fallible closure. On error the
// closure must leave the handle unconsumed or fully rolled back.
func TryFromFunc[T any](f func(*Uninit[T]) (*Init[T], error)) Initializer[T] {
	return tryFnInit[T]{f: f}
}

func (c tryFnInit[T]) InitInto(u *Uninit[T]) (*Init[T], error) {
	return c.f(u)
}
