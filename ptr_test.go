// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place_test

import (
	"testing"

	"code.hybscloud.com/place"
)

func TestWriteReadBack(t *testing.T) {
	var slot int
	in := place.FromPtr(&slot).Write(42)
	if got := *in.Ref(); got != 42 {
		t.Fatalf("read back %d, want 42", got)
	}
	in.Release()
	if slot != 42 {
		t.Fatalf("slot holds %d, want 42", slot)
	}
}

func TestWriteConsumesHandle(t *testing.T) {
	var slot int
	u := place.FromPtr(&slot)
	u.Write(1)
	if !mustPanic(func() { u.Write(2) }) {
		t.Fatal("second Write did not panic")
	}
}

func TestAssumeInitConsumesHandle(t *testing.T) {
	slot := 7
	u := place.FromPtr(&slot)
	in := u.AssumeInit()
	if got := *in.Ref(); got != 7 {
		t.Fatalf("read back %d, want 7", got)
	}
	if !mustPanic(func() { u.AssumeInit() }) {
		t.Fatal("second AssumeInit did not panic")
	}
	in.Release()
}

func TestDropRunsDestructorOnce(t *testing.T) {
	log := newDropLog()
	var slot tracked
	in := place.FromPtr(&slot).Write(tracked{id: 1, log: log})
	in.Drop()
	if log.counts[1] != 1 {
		t.Fatalf("destructor ran %d times, want 1", log.counts[1])
	}
	if !mustPanic(func() { in.Drop() }) {
		t.Fatal("second Drop did not panic")
	}
	if log.counts[1] != 1 {
		t.Fatalf("destructor ran %d times after double drop, want 1", log.counts[1])
	}
}

func TestReleaseThenRehandle(t *testing.T) {
	log := newDropLog()
	var slot tracked
	in := place.FromPtr(&slot).Write(tracked{id: 3, log: log})

	// Relinquish: some other owner takes over destructor duty.
	p := in.IntoRaw()
	if log.counts[3] != 0 {
		t.Fatalf("destructor ran on release: %d times", log.counts[3])
	}
	if !mustPanic(func() { in.Drop() }) {
		t.Fatal("Drop after release did not panic")
	}

	// Reconstruct a handle over the same address; its eventual drop must be
	// the one and only destructor run.
	re := place.FromPtr(p).AssumeInit()
	re.Drop()
	if log.counts[3] != 1 {
		t.Fatalf("destructor ran %d times, want exactly 1", log.counts[3])
	}
}

// TestHandleSerials: each handle creation assigns a fresh monotonic serial,
// and the serial survives the Uninit to Init transition.
func TestHandleSerials(t *testing.T) {
	var a, b int
	u1 := place.FromPtr(&a)
	u2 := place.FromPtr(&b)
	if u2.Serial() <= u1.Serial() {
		t.Fatalf("serials not monotonic: %d then %d", u1.Serial(), u2.Serial())
	}
	in := u1.Write(1)
	if in.Serial() != u1.Serial() {
		t.Fatalf("serial changed across transition: %d -> %d", u1.Serial(), in.Serial())
	}
	in.Release()
	u2.AssumeInit().Release()
}

func TestValueMovesOut(t *testing.T) {
	var slot string
	in := place.FromPtr(&slot).Write("moved")
	if got := in.Value(); got != "moved" {
		t.Fatalf("moved out %q, want %q", got, "moved")
	}
	if !mustPanic(func() { in.Drop() }) {
		t.Fatal("Drop after Value did not panic")
	}
}

func TestMustInitPanicsOnFailure(t *testing.T) {
	built := 0
	var slot tracked
	u := place.FromPtr(&slot)
	if !mustPanic(func() {
		u.MustInit(flaky{log: newDropLog(), built: &built, failAt: 1})
	}) {
		t.Fatal("MustInit did not panic on recipe failure")
	}
}

func TestOnStack(t *testing.T) {
	v, err := place.OnStack(place.Value(99))
	if err != nil {
		t.Fatalf("OnStack failed: %v", err)
	}
	if v != 99 {
		t.Fatalf("OnStack built %d, want 99", v)
	}
}

func TestWithPinnedAddressStable(t *testing.T) {
	log := newDropLog()
	var first uintptr
	_, err := place.WithPinned(place.Value(tracked{id: 9, log: log}), func(p place.Pin[tracked]) int {
		first = uintptr(p.Addr())
		p.Do(func(v *tracked) { v.id = 10 })
		if uintptr(p.Addr()) != first {
			return -1
		}
		return 0
	})
	if err != nil {
		t.Fatalf("WithPinned failed: %v", err)
	}
	// Drop ran for the mutated id when the scope ended.
	if log.counts[10] != 1 {
		t.Fatalf("pinned destructor ran %d times for id 10, want 1", log.counts[10])
	}
}

func TestPinForbidsNothingButSignalsIntent(t *testing.T) {
	var slot int
	in := place.FromPtr(&slot).Write(5)
	pin := in.Pin()
	pin.Do(func(p *int) { *p = 6 })
	if *in.Ref() != 6 {
		t.Fatalf("pinned mutation lost: got %d, want 6", *in.Ref())
	}
	in.Release()
}
