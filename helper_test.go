// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place_test

import (
	"errors"

	"code.hybscloud.com/place"
)

// errBoom is the deterministic recipe failure used across tests.
var errBoom = errors.New("boom")

// dropLog records destructor invocations per element id, to prove the
// "destruct exactly the initialized prefix, once each" invariant.
type dropLog struct {
	counts map[int]int
}

func newDropLog() *dropLog {
	return &dropLog{counts: make(map[int]int)}
}

// tracked is an element type with an observable destructor.
type tracked struct {
	id  int
	log *dropLog
}

func (t *tracked) Drop() {
	if t.log != nil {
		t.log.counts[t.id]++
	}
}

// flaky builds tracked elements with consecutive ids and fails
// deterministically on the failAt-th construction (1-based, 0 = never).
type flaky struct {
	log    *dropLog
	built  *int
	failAt int
}

func (f flaky) InitInto(u *place.Uninit[tracked]) (*place.Init[tracked], error) {
	*f.built++
	if *f.built == f.failAt {
		return nil, errBoom
	}
	return u.Write(tracked{id: *f.built, log: f.log}), nil
}

// panicky panics on the failAt-th construction, for the unwind property.
type panicky struct {
	log    *dropLog
	built  *int
	failAt int
}

func (p panicky) InitInto(u *place.Uninit[tracked]) (*place.Init[tracked], error) {
	*p.built++
	if *p.built == p.failAt {
		panic("mid-write panic")
	}
	return u.Write(tracked{id: *p.built, log: p.log}), nil
}

// mustPanic asserts that f panics.
func mustPanic(f func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	f()
	return false
}
