// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

// Initializer is the recipe-side half of the construction dispatch protocol:
// a recipe that knows how to build a T inside uninitialized memory. On
// success the handle has transitioned and the returned Init owns the value.
// On failure the recipe must leave nothing owned: whatever it part-built is
// rolled back before the error returns, and the error is its own, unchanged.
//
// Infallible recipes ([Value], [Zero], [FromFunc], [Args] over an error-free
// constructor) never return a non-nil error; call sites that rely on that
// use [Uninit.MustInit].
type Initializer[T any] interface {
	InitInto(u *Uninit[T]) (*Init[T], error)
}

// SliceInitializer is the run-level recipe: it builds every element of a
// contiguous run or rolls back the ones it built.
type SliceInitializer[T any] interface {
	InitSlice(u *UninitSlice[T]) (*InitSlice[T], error)
}

// Ctor is the type-side half of the dispatch protocol, for types that
// control their own construction given typed arguments. It is implemented on
// *T: the receiver is the placed, not-yet-valid value, and a nil return
// means the pointee is now fully constructed.
type Ctor[A any] interface {
	ConstructInPlace(args A) error
}

// Args is the single generic bridge between the two halves: it turns typed
// constructor arguments into a recipe for any type whose pointer implements
// [Ctor]. Specify the pointer type only; the rest is inferred:
//
//	place.Args[*conn]("eth0")
func Args[PT interface {
	*T
	Ctor[A]
}, T, A any](args A) Initializer[T] {
	return ctorArgs[PT, T, A]{args: args}
}

type ctorArgs[PT interface {
	*T
	Ctor[A]
}, T, A any] struct {
	args A
}

func (c ctorArgs[PT, T, A]) InitInto(u *Uninit[T]) (*Init[T], error) {
	if err := PT(u.Ptr()).ConstructInPlace(c.args); err != nil {
		return nil, err
	}
	return u.AssumeInit(), nil
}
