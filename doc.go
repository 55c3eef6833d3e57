// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package place provides placement construction: building values of arbitrary
// size and shape directly inside caller-supplied memory, without an
// intermediate movable copy.
//
// The package separates "allocated" from "valid" with a two-state handle pair.
// An [Uninit] wraps memory that fits a T but does not yet hold one; an [Init]
// wraps memory that holds a live T and owns its destructor. The transition
// between the two is the single trust boundary of the design. Go has no
// compile-time ownership tracking, so the transition is guarded at runtime:
// consuming a handle twice is a programmer error and panics immediately.
//
// # Architecture
//
//   - Handles: [Uninit]/[Init] for single values, [UninitSlice]/[InitSlice]
//     for contiguous runs. One-shot consumption is enforced with
//     [code.hybscloud.com/atomix] compare-and-swap guards.
//   - Recipes: values are built through the [Initializer] and
//     [SliceInitializer] interfaces, or by the type itself via [Ctor] and the
//     [Args] bridge.
//   - Layout: [Layout], [LayoutOf] and [ArrayLayoutOf] describe how much
//     memory a target needs. Recipes may additionally implement [Zeroer] to
//     prove that zero-filled memory is already a valid result, letting
//     allocation helpers skip per-element construction entirely.
//   - Writer: [SliceWriter] initializes a run one element at a time and,
//     if abandoned part way, destructs exactly the initialized prefix.
//   - Memory: the [Allocator] interface with [Heap] (GC-backed) and [Arena]
//     (bump, stack-discipline free) implementations. [Emplace],
//     [EmplaceSlice] and [EmplaceTail] construct directly into fresh
//     allocations; [EmplaceAppend] and [ExtendFrom] construct into the spare
//     capacity of an ordinary slice. Allocator memory carries no pointer map:
//     placing a pointer-bearing value (string, slice, map, *T) into a box is
//     only safe while its referents stay reachable elsewhere. Handles over
//     caller-owned memory ([FromPtr], [Over], the slice helpers) have no such
//     restriction.
//
// # Sources
//
// A run can be populated from several kinds of source:
//
//   - [CopySlice]: copy an existing slice; length must match exactly.
//   - [Repeat]: one recipe applied to every element.
//   - [FromSeq]: pull at most N values from an [iter.Seq].
//   - [FromQueue]/[FromQueueWait]: drain a bounded lock-free
//     [code.hybscloud.com/lfq.SPSC] queue directly into place, backing off on
//     [code.hybscloud.com/iox.ErrWouldBlock].
//
// A source that under-produces rolls back whatever it wrote and reports
// [ErrInsufficient]; a source that over-produces simply leaves the extras
// unread.
//
// # Destructors
//
// Element types opt into cleanup by implementing [Dropper]. Dropping an
// [Init] (or closing a [Box]) runs the value's Drop exactly once; releasing a
// handle first transfers that obligation to the caller. Pinned values are
// mutated through the [Pin] view, which never exposes a whole-value swap.
//
// # Example
//
//	type conn struct{ fd int }
//
//	func (c *conn) ConstructInPlace(fd int) error {
//		if fd < 0 {
//			return errors.New("bad descriptor")
//		}
//		c.fd = fd
//		return nil
//	}
//
//	arena := place.NewArena(1 << 16)
//	box, err := place.Emplace[conn](arena, place.Args[*conn](3))
//	if err != nil {
//		// allocation was already released
//	}
//	defer box.Close()
//	_ = box.Ref().fd
package place
