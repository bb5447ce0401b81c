package msgpool

import "sync/atomic"

// class holds everything needed to serve one size class: its cell size,
// its lock-free free-list, and a running count of cells ever carved for
// it (used to size the next slab expansion as a doubling of the
// class's current total, matching the reference allocator's growth
// rule).
type class struct {
	index    int
	cellSize int
	fl       freeList
	total    atomic.Int64 // cells ever carved into this class, live or free
}

// carve slices buf into fixed-size cells and pushes each onto the
// class's free-list. It returns the number of cells carved.
func (c *class) carve(buf []byte) int {
	n := len(buf) / c.cellSize
	for i := 0; i < n; i++ {
		cell := &Cell{
			Data:  buf[i*c.cellSize : i*c.cellSize : (i+1)*c.cellSize],
			Class: c.index,
		}
		c.fl.push(cell)
	}
	c.total.Add(int64(n))
	return n
}
