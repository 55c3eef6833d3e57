// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/place"
)

type header struct {
	name  string
	count int
}

func TestTailLayout(t *testing.T) {
	l, off, ok := place.TailLayout[uint64, uint32](3)
	if !ok {
		t.Fatal("layout computation failed")
	}
	if off != 8 {
		t.Fatalf("tail offset %d, want 8", off)
	}
	if l.Size != 24 || l.Align != 8 {
		t.Fatalf("combined layout %+v, want {24 8}", l)
	}
}

func TestEmplaceTail(t *testing.T) {
	box, err := place.EmplaceTail(place.Heap, 4,
		place.Value(header{name: "run", count: 4}),
		place.CopySlice([]int{10, 20, 30, 40}),
	)
	if err != nil {
		t.Fatalf("EmplaceTail failed: %v", err)
	}
	if h := box.Header(); h.name != "run" || h.count != 4 {
		t.Fatalf("header %+v, want {run 4}", *h)
	}
	if box.Len() != 4 {
		t.Fatalf("tail length %d, want 4", box.Len())
	}
	for i, v := range box.Tail() {
		if v != (i+1)*10 {
			t.Fatalf("tail element %d is %d, want %d", i, v, (i+1)*10)
		}
	}
	box.Close()
	if !mustPanic(box.Close) {
		t.Fatal("second Close did not panic")
	}
}

func TestEmplaceTailHeaderFailure(t *testing.T) {
	a := place.NewArena(256)
	_, err := place.EmplaceTail(a, 2,
		place.TryFromFunc(func(u *place.Uninit[header]) (*place.Init[header], error) {
			return nil, errBoom
		}),
		place.CopySlice([]int{1, 2}),
	)
	var te *place.TailError
	if !errors.As(err, &te) || te.Part != "header" {
		t.Fatalf("got %v, want *TailError for the header part", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("TailError does not wrap the recipe's error: %v", err)
	}
	if a.Used() != 0 {
		t.Fatalf("failed emplace left %d bytes allocated", a.Used())
	}
}

func TestEmplaceTailTailFailureDropsHeader(t *testing.T) {
	a := place.NewArena(256)
	log := newDropLog()
	built := 0
	src := func(yield func(place.Initializer[tracked]) bool) {
		for {
			if !yield(flaky{log: log, built: &built, failAt: 2}) {
				return
			}
		}
	}
	_, err := place.EmplaceTail[tracked, tracked](a, 3,
		place.Value(tracked{id: 99, log: log}),
		place.FromSeqInit[tracked](src),
	)
	var te *place.TailError
	if !errors.As(err, &te) || te.Part != "tail" {
		t.Fatalf("got %v, want *TailError for the tail part", err)
	}
	if log.counts[99] != 1 {
		t.Fatalf("header destructed %d times after tail failure, want 1", log.counts[99])
	}
	if log.counts[1] != 1 {
		t.Fatalf("tail prefix element destructed %d times, want 1", log.counts[1])
	}
	if a.Used() != 0 {
		t.Fatalf("failed emplace left %d bytes allocated", a.Used())
	}
}

func TestTailCloseOrder(t *testing.T) {
	var drops []int
	box, err := place.EmplaceTail(place.Heap, 2,
		place.Value(ordered{id: 0, seq: &drops}),
		place.CopySlice([]ordered{{id: 1, seq: &drops}, {id: 2, seq: &drops}}),
	)
	if err != nil {
		t.Fatalf("EmplaceTail failed: %v", err)
	}
	box.Close()
	if len(drops) != 3 || drops[0] != 1 || drops[1] != 2 || drops[2] != 0 {
		t.Fatalf("destructor order %v, want tail front to back then header [1 2 0]", drops)
	}
}

func TestEmplaceTailZeroFill(t *testing.T) {
	a := place.NewArena(256)
	// Dirty the block first so the zeroed request is load-bearing.
	if _, err := a.Alloc(place.Layout{Size: 128, Align: 1}, false); err != nil {
		t.Fatalf("priming Alloc failed: %v", err)
	}
	if _, err := place.EmplaceSlice(a, 16, place.Repeat(place.Value(byte(0xa5)))); err != nil {
		t.Fatalf("priming emplace failed: %v", err)
	}
	a.Reset()

	box, err := place.EmplaceTail(a, 4, place.Zero[uint64](), place.Repeat(place.Zero[uint32]()))
	if err != nil {
		t.Fatalf("zero-fill EmplaceTail failed: %v", err)
	}
	if *box.Header() != 0 {
		t.Fatalf("header is %d, want 0", *box.Header())
	}
	for i, v := range box.Tail() {
		if v != 0 {
			t.Fatalf("tail element %d is %d, want 0", i, v)
		}
	}
	box.Close()
}

func TestTailPinHeader(t *testing.T) {
	box := mustEmplaceTail(t)
	pin := box.PinHeader()
	addr := pin.Addr()
	pin.Do(func(h *header) { h.count = 7 })
	if pin.Addr() != addr {
		t.Fatal("pinned header address moved")
	}
	if box.Header().count != 7 {
		t.Fatalf("pinned mutation lost: %d", box.Header().count)
	}
	box.Close()
}

func mustEmplaceTail(t *testing.T) *place.TailBox[header, int] {
	t.Helper()
	box, err := place.EmplaceTail(place.Heap, 2,
		place.Value(header{name: "h", count: 2}),
		place.CopySlice([]int{1, 2}),
	)
	if err != nil {
		t.Fatalf("EmplaceTail failed: %v", err)
	}
	return box
}
