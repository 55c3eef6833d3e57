// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Handle states, tracked by a one-shot atomix guard per handle.
// The guard is the runtime stand-in for compile-time ownership: a consumed
// handle panics on any further consuming operation.
const (
	handleLive     = 0 // operations accepted
	handleConsumed = 1 // typestate transition happened, handle is dead
	handleDropped  = 2 // destructor ran (Init only)
	handleReleased = 3 // destructor duty relinquished to the caller (Init only)
)

// Dropper is the destructor hook. Element types opt into cleanup by
// implementing it; dropping a handle over a type without it is a no-op
// state transition.
type Dropper interface {
	Drop()
}

// dropInPlace runs the destructor of the value at p, if it has one.
func dropInPlace[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
}

// Uninit wraps a memory region that fits a T but is not yet known to hold
// one. The region is non-null, aligned, sized for T and exclusively owned by
// this handle. The content is raw bytes: it may be written through, never
// read as a T.
type Uninit[T any] struct {
	ptr    unsafe.Pointer
	serial Serial
	state  atomix.Uint32
}

// FromPtr creates an Uninit over the memory holding *p. Any prior value in
// that slot is forgotten: its destructor is not run and must already have
// been dealt with by the caller.
func FromPtr[T any](p *T) *Uninit[T] {
	if p == nil {
		panic("place: FromPtr on nil pointer")
	}
	return &Uninit[T]{ptr: unsafe.Pointer(p), serial: nextSerial()}
}

// FromRaw creates an Uninit from a raw address.
//
// Unchecked contract: the address is non-null, aligned for T, sized to fit T,
// valid for reads and writes, and not aliased by another handle for the
// duration of this one. Violations are undefined behavior, not errors.
func FromRaw[T any](ptr unsafe.Pointer) *Uninit[T] {
	return &Uninit[T]{ptr: ptr, serial: nextSerial()}
}

// consume flips the handle to its next state exactly once.
func (u *Uninit[T]) consume() {
	if !u.state.CompareAndSwap(handleLive, handleConsumed) {
		panic(fmt.Sprintf("place: uninit handle consumed twice (region #%d)", u.serial))
	}
}

// Serial returns the region serial assigned to this handle.
func (u *Uninit[T]) Serial() Serial { return u.serial }

// Ptr returns the raw slot. The pointee may be written field by field but
// must not be read as a valid T, and must not escape the handle's scope.
func (u *Uninit[T]) Ptr() *T { return (*T)(u.ptr) }

// Raw returns the region address without consuming the handle.
func (u *Uninit[T]) Raw() unsafe.Pointer { return u.ptr }

// Write moves a fully-formed value into the region and returns the
// initialized handle. Cannot fail.
func (u *Uninit[T]) Write(v T) *Init[T] {
	u.consume()
	*(*T)(u.ptr) = v
	return &Init[T]{ptr: u.ptr, serial: u.serial}
}

// AssumeInit asserts that the region already holds a valid T, written by
// other means. This is the single unchecked trust point of the package:
// the assertion is the caller's to prove.
func (u *Uninit[T]) AssumeInit() *Init[T] {
	u.consume()
	return &Init[T]{ptr: u.ptr, serial: u.serial}
}

// TryInit dispatches construction to the recipe.
func (u *Uninit[T]) TryInit(init Initializer[T]) (*Init[T], error) {
	return init.InitInto(u)
}

// MustInit dispatches construction to a recipe known not to fail.
// A failing recipe is a programmer error here and panics.
func (u *Uninit[T]) MustInit(init Initializer[T]) *Init[T] {
	in, err := init.InitInto(u)
	if err != nil {
		panic(fmt.Sprintf("place: infallible recipe failed (region #%d): %v", u.serial, err))
	}
	return in
}

// Init wraps a memory region holding a live, valid T. It exclusively owns
// the value: Drop runs the destructor exactly once, unless ownership was
// relinquished first via Release, IntoRaw or Value.
type Init[T any] struct {
	ptr    unsafe.Pointer
	serial Serial
	state  atomix.Uint32
}

// Serial returns the region serial assigned to this handle.
func (in *Init[T]) Serial() Serial { return in.serial }

// Ref returns the live value for reads and field mutation.
// For pinned consumers, use Pin instead; Ref makes no relocation promise.
func (in *Init[T]) Ref() *T { return (*T)(in.ptr) }

// Pin returns the no-relocation view of the value. The address stays fixed
// until the destructor runs; the view permits field mutation but exposes no
// whole-value swap.
func (in *Init[T]) Pin() Pin[T] { return Pin[T]{ptr: (*T)(in.ptr)} }

// Drop runs the value's destructor. Exactly once: a second Drop, or a Drop
// after Release, panics. Safe to defer immediately after construction.
func (in *Init[T]) Drop() {
	if !in.state.CompareAndSwap(handleLive, handleDropped) {
		panic(fmt.Sprintf("place: init handle dropped twice or after release (region #%d)", in.serial))
	}
	dropInPlace((*T)(in.ptr))
}

// Release relinquishes destructor duty: some other owner (a container, a
// manual deallocation path) has taken responsibility for eventually running
// it. After Release the handle is dead and the region address is the
// caller's to manage.
func (in *Init[T]) Release() {
	if !in.state.CompareAndSwap(handleLive, handleReleased) {
		panic(fmt.Sprintf("place: init handle released twice or after drop (region #%d)", in.serial))
	}
}

// IntoRaw relinquishes ownership and returns the value's address.
func (in *Init[T]) IntoRaw() *T {
	in.Release()
	return (*T)(in.ptr)
}

// Value moves the value out of the region and relinquishes the handle.
// Only legal for freely relocatable values; a pinned value must never leave
// its region this way.
func (in *Init[T]) Value() T {
	in.Release()
	return *(*T)(in.ptr)
}

// Pin is the no-relocation view of an initialized value. It exists so that
// self-referential consumers receive an interface that forbids swapping the
// whole value out, which a bare pointer would not.
type Pin[T any] struct {
	ptr *T
}

// Do applies f to the pinned value. f may mutate fields; it must not copy
// the value out of place or overwrite it wholesale.
func (p Pin[T]) Do(f func(*T)) { f(p.ptr) }

// Addr returns the fixed address of the pinned value.
func (p Pin[T]) Addr() unsafe.Pointer { return unsafe.Pointer(p.ptr) }

// OnStack constructs a T through the recipe in a fresh stack slot and moves
// the result out. The detour through a handle buys the recipe dispatch, not
// pinning: the returned value has been relocated.
func OnStack[T any](init Initializer[T]) (T, error) {
	var slot T
	in, err := FromPtr(&slot).TryInit(init)
	if err != nil {
		var zero T
		return zero, err
	}
	in.Release()
	return slot, nil
}

// WithPinned constructs a T in a fresh slot, passes the pinned view to f,
// and runs the destructor when f returns. The value never relocates between
// construction and destruction.
func WithPinned[T, R any](init Initializer[T], f func(Pin[T]) R) (R, error) {
	var slot T
	in, err := FromPtr(&slot).TryInit(init)
	if err != nil {
		var zero R
		return zero, err
	}
	defer in.Drop()
	return f(in.Pin()), nil
}
