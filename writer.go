// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"fmt"
	"unsafe"
)

// SliceWriter initializes the elements of a run one at a time.
//
// Invariant: elements [0, count) are valid and owned by the writer;
// elements [count, len) are uninitialized. The writer is a temporary
// custodian: Finish hands the fully-built run over as one InitSlice,
// Abandon destructs exactly the initialized prefix and nothing more.
//
// The poison flag is armed before each element recipe runs and cured after
// it succeeds, so a recipe that panics leaves the writer poisoned with the
// count frozen at the last fully-initialized element. The usual shape is
//
//	w := place.NewSliceWriter(u)
//	defer w.Abandon()
//	...
//	return w.Finish(), nil
//
// which rolls back correctly on error return and on unwind alike.
type SliceWriter[T any] struct {
	u         *UninitSlice[T]
	count     int
	poisoned  bool
	finished  bool
	abandoned bool
}

// NewSliceWriter creates a writer over the run. The writer consumes the
// handle; the run comes back as a single InitSlice from Finish.
func NewSliceWriter[T any](u *UninitSlice[T]) *SliceWriter[T] {
	u.consume()
	return &SliceWriter[T]{u: u}
}

// Remaining returns the number of elements still to initialize,
// or zero if the writer is poisoned.
func (w *SliceWriter[T]) Remaining() int {
	if w.poisoned {
		return 0
	}
	return w.u.n - w.count
}

// Count returns the number of elements initialized so far.
func (w *SliceWriter[T]) Count() int { return w.count }

// Complete reports whether no further elements are pending.
// A poisoned writer is complete: it accepts nothing more.
func (w *SliceWriter[T]) Complete() bool {
	return w.count == w.u.n || w.poisoned
}

// Poisoned reports whether an element recipe failed or panicked mid-write.
func (w *SliceWriter[T]) Poisoned() bool { return w.poisoned }

// TryInit initializes the next element of the run with the recipe.
// Returns (false, nil) if no slots remain, (true, nil) on success.
// On recipe failure the writer is poisoned with the count unchanged and the
// recipe's error propagates unchanged; the caller is expected to Abandon.
func (w *SliceWriter[T]) TryInit(init Initializer[T]) (bool, error) {
	if w.Complete() {
		return false, nil
	}
	if err := w.initNext(init); err != nil {
		return false, err
	}
	return true, nil
}

// initNext writes element w.count. Poison is armed first so that both an
// error return and a panic inside the recipe freeze the count at the last
// element that completed.
func (w *SliceWriter[T]) initNext(init Initializer[T]) error {
	w.poisoned = true
	el := w.u.uninitAt(w.count)
	in, err := init.InitInto(el)
	if err != nil {
		return err
	}
	in.Release()
	w.count++
	w.poisoned = false
	return nil
}

// Finish hands the fully-initialized run over as a single handle, which
// takes on the destructor obligation for every element. Calling Finish
// before every slot is initialized is a programmer error and panics.
func (w *SliceWriter[T]) Finish() *InitSlice[T] {
	if w.count != w.u.n || w.poisoned {
		panic(fmt.Sprintf("place: Finish on incomplete writer: %d of %d elements (region #%d)",
			w.count, w.u.n, w.u.serial))
	}
	w.finished = true
	return &InitSlice[T]{ptr: w.u.ptr, n: w.u.n, serial: w.u.serial}
}

// Abandon rolls the writer back: the destructors of exactly the first Count
// elements run, once each, and the uninitialized tail is untouched.
// Idempotent, and a no-op after Finish, so it is safe to defer
// unconditionally.
func (w *SliceWriter[T]) Abandon() {
	if w.finished || w.abandoned {
		return
	}
	w.abandoned = true
	w.poisoned = true
	if w.count == 0 {
		return
	}
	s := unsafe.Slice((*T)(w.u.ptr), w.count)
	for i := range s {
		dropInPlace(&s[i])
	}
}
