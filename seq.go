// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import "iter"

// copySource copies an existing slice into the run.
type copySource[T any] struct {
	src []T
}

// CopySlice returns a run recipe that copies src element for element.
// The destination run must have exactly len(src) elements; otherwise the
// recipe returns a *LengthError carrying both lengths and writes nothing.
func CopySlice[T any](src []T) SliceInitializer[T] {
	return copySource[T]{src: src}
}

func (c copySource[T]) InitSlice(u *UninitSlice[T]) (*InitSlice[T], error) {
	return u.CopyFrom(c.src)
}

// SourceLen reports the intrinsic run length, for helpers that size the
// allocation from the source.
func (c copySource[T]) SourceLen() int { return len(c.src) }

// CloneableInitializer is the optional recipe interface for recipes that can
// be duplicated. [Repeat] clones such a recipe for all but the last element
// and consumes the original on the last, supporting recipes that own a
// resource they can hand over exactly once.
type CloneableInitializer[T any] interface {
	Initializer[T]
	CloneInit() Initializer[T]
}

// repeatSource applies one element recipe to every slot.
type repeatSource[T any] struct {
	init Initializer[T]
}

// Repeat returns a run recipe that builds every element with init.
// If init implements [CloneableInitializer], the first n-1 elements use
// clones and the last consumes the original; otherwise the same recipe value
// is applied to each slot.
func Repeat[T any](init Initializer[T]) SliceInitializer[T] {
	return repeatSource[T]{init: init}
}

func (r repeatSource[T]) InitSlice(u *UninitSlice[T]) (*InitSlice[T], error) {
	w := NewSliceWriter(u)
	defer w.Abandon()
	for w.Remaining() > 1 {
		el := r.init
		if c, ok := el.(CloneableInitializer[T]); ok {
			el = c.CloneInit()
		}
		if _, err := w.TryInit(el); err != nil {
			return nil, err
		}
	}
	if _, err := w.TryInit(r.init); err != nil {
		return nil, err
	}
	return w.Finish(), nil
}

// Zeroed forwards the element recipe's zero-fill claim: a run is zeroable
// exactly when each of its elements is.
func (r repeatSource[T]) Zeroed() bool { return zeroed(r.init) }

// seqSource pulls values from an iter.Seq.
type seqSource[T any] struct {
	seq iter.Seq[T]
}

// FromSeq returns a run recipe that pulls values from seq, at most one per
// element. A sequence that ends before the run is full causes rollback of
// everything written and [ErrInsufficient]; a sequence with more values than
// the run simply keeps its extras.
func FromSeq[T any](seq iter.Seq[T]) SliceInitializer[T] {
	return seqSource[T]{seq: seq}
}

func (s seqSource[T]) InitSlice(u *UninitSlice[T]) (*InitSlice[T], error) {
	w := NewSliceWriter(u)
	defer w.Abandon()
	next, stop := iter.Pull(s.seq)
	defer stop()
	for !w.Complete() {
		v, ok := next()
		if !ok {
			return nil, ErrInsufficient
		}
		if _, err := w.TryInit(Value(v)); err != nil {
			return nil, err
		}
	}
	return w.Finish(), nil
}

// seqInitSource pulls element recipes from an iter.Seq.
type seqInitSource[T any] struct {
	seq iter.Seq[Initializer[T]]
}

// FromSeqInit is [FromSeq] over recipes instead of values: each pulled
// recipe builds one element, and a recipe failure poisons the writer with
// the recipe's own error after rollback.
func FromSeqInit[T any](seq iter.Seq[Initializer[T]]) SliceInitializer[T] {
	return seqInitSource[T]{seq: seq}
}

func (s seqInitSource[T]) InitSlice(u *UninitSlice[T]) (*InitSlice[T], error) {
	w := NewSliceWriter(u)
	defer w.Abandon()
	next, stop := iter.Pull(s.seq)
	defer stop()
	for !w.Complete() {
		init, ok := next()
		if !ok {
			return nil, ErrInsufficient
		}
		if _, err := w.TryInit(init); err != nil {
			return nil, err
		}
	}
	return w.Finish(), nil
}
