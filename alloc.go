// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import "unsafe"

// Allocator obtains memory matching a layout. The package takes no position
// on allocation strategy beyond this contract: ask a layout for
// size/alignment, obtain memory matching it, release it with Free.
//
// The zeroed request is a floor, not an exact demand: an allocator whose
// memory is always zero (the GC heap) may ignore it, while an allocator that
// reuses dirty memory (an arena) must honor it.
//
// Allocation helpers follow strict stack discipline: allocate, attempt to
// populate, on failure Free before returning the error, on success hand the
// allocation's ownership to the returned container.
//
// Allocations are raw byte memory with no pointer map: the collector never
// scans them for references. Element types containing Go pointers (strings,
// slices, maps, channels, *T) may be placed into them only when every
// referent is kept reachable elsewhere for the lifetime of the allocation;
// otherwise the referent can be collected while the placed value still names
// it. Pointer-free element types have no such restriction.
type Allocator interface {
	Alloc(layout Layout, zeroed bool) (unsafe.Pointer, error)
	Free(ptr unsafe.Pointer, layout Layout)
}

// zeroSized is the shared pointee for zero-size allocations.
var zeroSized struct{}

// heapAllocator serves layouts from GC-managed byte memory. Memory from the
// Go runtime is always zero-filled, so the zeroed request costs nothing.
// Free releases the package's reference; reclamation is the collector's.
// The backing memory is pointer-free as far as the collector is concerned;
// see the [Allocator] contract for what that means for element types.
type heapAllocator struct{}

// Heap is the GC-backed allocator. It keeps the allocation itself alive
// while handles reference it, but does not trace pointers stored inside it.
var Heap Allocator = heapAllocator{}

func (heapAllocator) Alloc(layout Layout, _ bool) (unsafe.Pointer, error) {
	if layout.Size == 0 {
		return unsafe.Pointer(&zeroSized), nil
	}
	// Over-allocate by the alignment and round the base up: byte slices from
	// the runtime only guarantee word alignment.
	buf := make([]byte, layout.Size+layout.Align-1)
	p := unsafe.Pointer(unsafe.SliceData(buf))
	if rem := uintptr(p) & (layout.Align - 1); rem != 0 {
		p = unsafe.Add(p, layout.Align-rem)
	}
	return p, nil
}

func (heapAllocator) Free(unsafe.Pointer, Layout) {}
