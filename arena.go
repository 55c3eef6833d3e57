// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import "unsafe"

// Arena is a bump allocator over one fixed block. It exists to give
// placement construction a memory source with real uninitialized content:
// after Reset the block is reused dirty, so the zero-fill decision and the
// writer path are observably different, unlike GC memory which always
// arrives zeroed.
//
// Free follows stack discipline: freeing the most recent allocation rewinds
// the bump offset, which is exactly the allocate→populate→free-on-failure
// shape the emplace helpers need. Freeing anything older is a no-op until
// Reset.
//
// The block is plain byte memory without a pointer map; the [Allocator]
// restriction on pointer-bearing element types applies.
//
// An Arena is single-owner, like the handles built on top of it.
type Arena struct {
	block []byte
	off   uintptr
	last  uintptr // offset of the most recent allocation, for stack-discipline Free
}

// NewArena creates an arena over a fresh block of n bytes.
func NewArena(n int) *Arena {
	if n <= 0 {
		panic("place: arena size must be positive")
	}
	return &Arena{block: make([]byte, n), last: uintptr(n)}
}

// Alloc carves the next layout-aligned span off the block.
// Returns *AllocError if the remaining space cannot satisfy the layout.
func (a *Arena) Alloc(layout Layout, zeroed bool) (unsafe.Pointer, error) {
	if layout.Size == 0 {
		return unsafe.Pointer(&zeroSized), nil
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.block)))
	off := alignUp(base+a.off, layout.Align) - base
	if off+layout.Size > uintptr(len(a.block)) {
		return nil, &AllocError{Layout: layout}
	}
	if zeroed {
		clear(a.block[off : off+layout.Size])
	}
	a.last = off
	a.off = off + layout.Size
	return unsafe.Pointer(&a.block[off]), nil
}

// Free rewinds the bump offset if ptr is the most recent allocation.
// Older spans stay occupied until Reset.
func (a *Arena) Free(ptr unsafe.Pointer, layout Layout) {
	if layout.Size == 0 || a.last >= uintptr(len(a.block)) {
		return
	}
	if ptr == unsafe.Pointer(&a.block[a.last]) {
		a.off = a.last
		a.last = uintptr(len(a.block))
	}
}

// Reset makes the whole block available again. The content is deliberately
// left as is: subsequent allocations observe stale bytes unless they request
// zeroed memory. Outstanding handles into the arena must be dead before
// Reset; the arena cannot check that for them.
func (a *Arena) Reset() {
	a.off = 0
	a.last = uintptr(len(a.block))
}

// Used returns the number of bytes currently allocated.
func (a *Arena) Used() int { return int(a.off) }
