// slock - a simple, yet effective way for locking
package slock

import "sync/atomic"

// ServiceLocker is minimalistic service locking interface
type ServiceLocker interface {
	TryLock() bool
	TryUnlock() bool
	Running() bool
}

// AtomicServiceLock marks a long running loop (e.g. the screen redraw)
// as active, so a second Run is refused instead of drawing twice
type AtomicServiceLock struct {
	running atomic.Bool
}

func (sl *AtomicServiceLock) TryLock() bool {
	return sl.running.CompareAndSwap(false, true)
}

func (sl *AtomicServiceLock) TryUnlock() bool {
	return sl.running.CompareAndSwap(true, false)
}

func (sl *AtomicServiceLock) Running() bool {
	return sl.running.Load()
}
