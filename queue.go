// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// queueSource drains a bounded SPSC queue directly into a run, one dequeued
// value per element, with no intermediate slice.
type queueSource[T any] struct {
	q    *lfq.SPSC[T]
	done *atomix.Uint32
}

// FromQueue returns a run recipe that drains q non-blockingly.
// An empty queue before the run is full rolls back everything written and
// reports [ErrInsufficient]; values beyond the run's length stay queued.
func FromQueue[T any](q *lfq.SPSC[T]) SliceInitializer[T] {
	return queueSource[T]{q: q}
}

// FromQueueWait returns a run recipe that waits for the producer.
// An empty queue is treated as backpressure: the recipe backs off with
// [iox.Backoff] until the producer either enqueues more or raises done
// (incremented after its last enqueue). Once done is raised and the queue is
// drained, a still-unfilled run rolls back and reports [ErrInsufficient].
func FromQueueWait[T any](q *lfq.SPSC[T], done *atomix.Uint32) SliceInitializer[T] {
	return queueSource[T]{q: q, done: done}
}

func (s queueSource[T]) InitSlice(u *UninitSlice[T]) (*InitSlice[T], error) {
	w := NewSliceWriter(u)
	defer w.Abandon()
	var bo iox.Backoff
	final := false
	for !w.Complete() {
		v, err := s.q.Dequeue()
		if err != nil {
			if !iox.IsWouldBlock(err) {
				return nil, err
			}
			if s.done == nil || final {
				return nil, ErrInsufficient
			}
			if s.done.Load() != 0 {
				// The producer is finished, but values enqueued just
				// before done was raised may still be in flight.
				// One more drain pass settles it.
				final = true
				continue
			}
			bo.Wait()
			continue
		}
		final = false
		bo.Reset()
		if _, err := w.TryInit(Value(v)); err != nil {
			return nil, err
		}
	}
	return w.Finish(), nil
}
