// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"fmt"
	"unsafe"
)

// Fields builds a record field by field: each field gets its own disjoint
// sub-region, initialized independently, and the record only becomes a valid
// whole after every field has succeeded. If any field fails, the fields
// already completed are rolled back in reverse order.
//
//	u := place.FromPtr(&slot)
//	fs := place.BeginFields(u)
//	rec := u.Ptr()
//	if err := place.InitField(fs, &rec.Name, place.Value("a")); err != nil { ... }
//	if err := place.InitField(fs, &rec.Conn, place.Args[*conn](3)); err != nil { ... }
//	in := fs.Complete()
type Fields[S any] struct {
	u      *Uninit[S]
	drops  []func()
	failed bool
}

// BeginFields starts field-by-field construction of the record behind u.
// The builder borrows the handle; Complete consumes it.
func BeginFields[S any](u *Uninit[S]) *Fields[S] {
	return &Fields[S]{u: u}
}

// InitField initializes one field of the record with the recipe. The field
// pointer must lie inside the record (checked); initializing the same field
// twice is the caller's bug and is not detected beyond the region check.
//
// On recipe failure every previously completed field is destructed in
// reverse completion order, the builder is dead, and the recipe's error is
// returned unchanged.
func InitField[S, F any](fs *Fields[S], field *F, init Initializer[F]) error {
	if fs.failed || fs.u == nil {
		panic("place: InitField after failure or completion")
	}
	base := uintptr(fs.u.Raw())
	addr := uintptr(unsafe.Pointer(field))
	if addr < base || addr+unsafe.Sizeof(*field) > base+elemSize[S]() {
		panic(fmt.Sprintf("place: field does not lie inside record (region #%d)", fs.u.serial))
	}
	in, err := init.InitInto(FromPtr(field))
	if err != nil {
		fs.fail()
		return err
	}
	// The builder takes over destructor duty until Complete or rollback.
	in.Release()
	fs.drops = append(fs.drops, func() { dropInPlace(field) })
	return nil
}

// fail rolls back completed fields in reverse order.
func (fs *Fields[S]) fail() {
	fs.failed = true
	for i := len(fs.drops) - 1; i >= 0; i-- {
		fs.drops[i]()
	}
	fs.drops = nil
}

// Abandon rolls back the fields completed so far. A no-op after a failure
// (which already rolled back) and safe to defer; Complete disarms it.
func (fs *Fields[S]) Abandon() {
	if fs.failed || fs.u == nil {
		return
	}
	fs.fail()
}

// Complete asserts the record fully initialized and returns the initialized
// handle, which takes over destructor duty for the whole record. The caller
// vouches that every field of S was initialized through InitField; the
// builder can only check that none failed.
func (fs *Fields[S]) Complete() *Init[S] {
	if fs.failed || fs.u == nil {
		panic("place: Complete after failure or abandonment")
	}
	fs.drops = nil
	u := fs.u
	fs.u = nil
	return u.AssumeInit()
}
