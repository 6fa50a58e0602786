package event

import "sync/atomic"

// atomic64 is a small wrapper around an atomic counter.
type atomic64 struct {
	v atomic.Uint64
}

func (a *atomic64) inc() {
	a.v.Add(1)
}

func (a *atomic64) load() uint64 {
	return a.v.Load()
}
