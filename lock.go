/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import "sync"

// locker is the concurrency discipline of a single slot. All slot operations
// go through this interface so call sites stay flavor-agnostic.
//
// The try methods never block and report whether the access was granted. The
// wait methods suspend until the access can be granted and report false only
// when the discipline cannot suspend at all (the unsynchronized flavor).
type locker interface {
	tryShared() bool
	tryExclusive() bool
	waitShared() bool
	waitExclusive() bool
	releaseShared()
	releaseExclusive()
}

// unsyncLock is the single-owner, runtime-checked discipline: plain borrow
// counters with no synchronization, like a checked borrow cell. It must not
// be shared across goroutines. It cannot suspend, so the wait methods degrade
// to the try methods.
type unsyncLock struct {
	shared    int
	exclusive bool
}

func (l *unsyncLock) tryShared() bool {
	if l.exclusive {
		return false
	}
	l.shared++
	return true
}

func (l *unsyncLock) tryExclusive() bool {
	if l.exclusive || l.shared > 0 {
		return false
	}
	l.exclusive = true
	return true
}

func (l *unsyncLock) waitShared() bool    { return l.tryShared() }
func (l *unsyncLock) waitExclusive() bool { return l.tryExclusive() }

func (l *unsyncLock) releaseShared()    { l.shared-- }
func (l *unsyncLock) releaseExclusive() { l.exclusive = false }

// mutexLock is the exclusive discipline: every access, shared or not, takes
// the one mutex.
type mutexLock struct {
	mu sync.Mutex
}

func (l *mutexLock) tryShared() bool    { return l.mu.TryLock() }
func (l *mutexLock) tryExclusive() bool { return l.mu.TryLock() }

func (l *mutexLock) waitShared() bool {
	l.mu.Lock()
	return true
}

func (l *mutexLock) waitExclusive() bool {
	l.mu.Lock()
	return true
}

func (l *mutexLock) releaseShared()    { l.mu.Unlock() }
func (l *mutexLock) releaseExclusive() { l.mu.Unlock() }

// rwLock is the shared/exclusive discipline: multiple concurrent readers,
// writers exclusive.
type rwLock struct {
	mu sync.RWMutex
}

func (l *rwLock) tryShared() bool    { return l.mu.TryRLock() }
func (l *rwLock) tryExclusive() bool { return l.mu.TryLock() }

func (l *rwLock) waitShared() bool {
	l.mu.RLock()
	return true
}

func (l *rwLock) waitExclusive() bool {
	l.mu.Lock()
	return true
}

func (l *rwLock) releaseShared()    { l.mu.RUnlock() }
func (l *rwLock) releaseExclusive() { l.mu.Unlock() }

// Flavor selects the concurrency discipline of every slot in a Storage.
type Flavor uint8

const (
	// Unsync slots use runtime borrow counters with no synchronization.
	// Fast, but the storage must stay confined to a single goroutine.
	Unsync Flavor = iota

	// Mutex slots serialize all access, shared or not, behind a sync.Mutex.
	Mutex

	// RWMutex slots allow concurrent shared readers and exclusive writers
	// behind a sync.RWMutex.
	RWMutex
)

func (f Flavor) String() string {
	switch f {
	case Unsync:
		return "unsync"
	case Mutex:
		return "mutex"
	case RWMutex:
		return "rwmutex"
	default:
		return "unknown"
	}
}

// newLocker builds the discipline for one slot of the given flavor.
func (f Flavor) newLocker() locker {
	switch f {
	case Mutex:
		return &mutexLock{}
	case RWMutex:
		return &rwLock{}
	default:
		return &unsyncLock{}
	}
}
