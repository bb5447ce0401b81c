// Package msgpool implements a size-classed global pool allocator for
// fixed-shape message control blocks ("cells"). It hands cells to many
// concurrent producer/consumer goroutines with minimal contention: a byte
// length is mapped to a bounded power-of-two size class, a lock-free
// per-class free-list supplies or reclaims cells on the hot path, and a
// single mutex serializes the rare event of extending the class table or
// growing a class's slab set.
//
// A Pool never hands out the same cell twice, never relocates a
// previously returned cell, and never shrinks once a class exists.
// Destroying a Pool releases every slab it ever allocated; cells still
// held by callers at that point are the caller's responsibility.
package msgpool
