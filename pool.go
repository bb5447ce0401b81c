package msgpool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/msgpool/internal/debug"
	poolerrors "github.com/standardbeagle/msgpool/internal/errors"
)

// Liveness tag values, carried over from the reference allocator this
// package replaces: a live pool reads tagLive, a destroyed one
// tagDead. Any other value means the pool was never initialized through
// New.
const (
	tagLive uint32 = 0xCAFEEBEC
	tagDead uint32 = 0xDEADBEEF
)

// Config tunes a Pool at construction time. The zero value is valid and
// selects the package defaults.
type Config struct {
	// BaseSize is the cell size of class 0. Must be a positive power of
	// two. Defaults to DefaultBaseSize.
	BaseSize int

	// InitialSlabBytes is the size of the first slab carved for any
	// newly created class. Defaults to DefaultInitialSlabBytes.
	InitialSlabBytes int

	// SlabAlloc, when set, replaces the system allocator used to back
	// new slabs. Tests use this to inject allocation failures without
	// exhausting real memory.
	SlabAlloc func(n int) ([]byte, error)
}

// Pool is a size-classed, concurrency-safe cell allocator. The zero
// value is not usable; construct one with New.
type Pool struct {
	baseSize         int
	initialSlabBytes int
	slabAlloc        func(n int) ([]byte, error)

	tag atomic.Uint32

	growMu   sync.Mutex
	classes  atomic.Pointer[[]*class] // copy-on-write, append-only
}

// New constructs a Pool. The pool carries no classes until the first
// Allocate call forces one into existence.
func New(cfg Config) (*Pool, error) {
	base := cfg.BaseSize
	if base == 0 {
		base = DefaultBaseSize
	}
	if base <= 0 || base&(base-1) != 0 {
		return nil, poolerrors.NewConfigError("BaseSize", base, fmt.Errorf("must be a positive power of two"))
	}

	slabBytes := cfg.InitialSlabBytes
	if slabBytes == 0 {
		slabBytes = DefaultInitialSlabBytes
	}
	if slabBytes <= 0 {
		return nil, poolerrors.NewConfigError("InitialSlabBytes", slabBytes, fmt.Errorf("must be positive"))
	}

	alloc := cfg.SlabAlloc
	if alloc == nil {
		alloc = defaultSlabAlloc
	}

	p := &Pool{
		baseSize:         base,
		initialSlabBytes: slabBytes,
		slabAlloc:        alloc,
	}
	p.tag.Store(tagLive)
	empty := make([]*class, 0)
	p.classes.Store(&empty)
	return p, nil
}

// defaultSlabAlloc backs slabs with ordinary Go heap memory, recovering
// from an allocation panic and reporting it as an error instead of
// crashing the process.
func defaultSlabAlloc(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("slab allocation of %d bytes failed: %v", n, r)
		}
	}()
	return make([]byte, n), nil
}

// CheckTag reports whether the pool's liveness tag currently reads
// live. It is a best-effort diagnostic: a racing Destroy can flip the
// tag immediately after CheckTag observes it.
func (p *Pool) CheckTag() bool {
	return p.tag.Load() == tagLive
}

// Size returns the approximate number of free cells summed across every
// class's free-list. It is informational only: under concurrent
// allocate/deallocate traffic the count may be stale by the time the
// caller observes it.
func (p *Pool) Size() int64 {
	classes := *p.classes.Load()
	var total int64
	for _, c := range classes {
		total += c.fl.count()
	}
	return total
}

// Destroy marks the pool dead and drops its class table, releasing the
// pool's references to every slab. Cells already handed out remain
// valid Go memory (the garbage collector, not Destroy, reclaims slab
// backing arrays once no cell refers to them) but must not be passed
// to Deallocate on this pool afterward.
func (p *Pool) Destroy() {
	p.tag.Store(tagDead)
	empty := make([]*class, 0)
	p.classes.Store(&empty)
}

// classAt returns the class at index b, or nil if the table has not
// been extended that far yet.
func (p *Pool) classAt(b int) *class {
	classes := *p.classes.Load()
	if b < len(classes) {
		return classes[b]
	}
	return nil
}

// ensureClass returns the class for index b, creating it (and every
// missing class below it) under growMu if necessary. The lock is held
// across the new class's first slab carve, matching the reference
// allocator's allocate_block: a caller blocked on class creation
// observes either no class or a fully stocked one, never a half-built
// one.
func (p *Pool) ensureClass(b, n int) (*class, error) {
	if c := p.classAt(b); c != nil {
		return c, nil
	}

	p.growMu.Lock()
	defer p.growMu.Unlock()

	classes := *p.classes.Load()
	if b < len(classes) {
		return classes[b], nil
	}

	next := make([]*class, len(classes), b+1)
	copy(next, classes)
	for i := len(next); i <= b; i++ {
		cl := &class{index: i, cellSize: sizeOf(i, p.baseSize)}
		buf, err := p.slabAlloc(p.initialSlabBytes)
		if err != nil {
			return nil, poolerrors.NewGrowthError(i, n, err)
		}
		carved := cl.carve(buf)
		debug.LogGrowth("extended class table to class %d, cell size %d, carved %d cells\n", i, cl.cellSize, carved)
		next = append(next, cl)
	}
	p.classes.Store(&next)
	return next[b], nil
}

// expandClass adds another slab to an already-existing class, sized to
// double the class's current total cell count (matching the reference
// allocator's expand_block, including its quirk of doubling from the
// count observed at lock acquisition rather than from the class's
// initial slab size). The growMu lock is released before the new
// cells are pushed onto the free-list, so growth of another class is
// not held up by this class's carve.
func (p *Pool) expandClass(c *class, n int) error {
	p.growMu.Lock()
	current := c.total.Load()
	addCells := current
	if addCells <= 0 {
		addCells = 1
	}
	buf, err := p.slabAlloc(int(addCells) * c.cellSize)
	if err != nil {
		p.growMu.Unlock()
		return poolerrors.NewGrowthError(c.index, n, err)
	}
	p.growMu.Unlock()

	carved := c.carve(buf)
	debug.LogGrowth("expanded class %d from %d to %d cells\n", c.index, current, current+int64(carved))
	return nil
}

// Allocate returns a cell large enough to hold n bytes, growing the
// class table or an existing class's slab set as needed. Allocate(0)
// returns a nil cell and a nil error.
func (p *Pool) Allocate(n int) (*Cell, error) {
	if n == 0 {
		return nil, nil
	}
	if !p.CheckTag() {
		return nil, poolerrors.NewDestroyedError("Allocate")
	}

	b := classOf(n, p.baseSize)
	c, err := p.ensureClass(b, n)
	if err != nil {
		return nil, err
	}

	for {
		if cell, ok := c.fl.tryPop(); ok {
			cell.Data = cell.Data[:n]
			return cell, nil
		}
		if err := p.expandClass(c, n); err != nil {
			return nil, err
		}
	}
}

// Deallocate returns a cell to its class's free-list. Passing a nil
// cell is a no-op. Passing a cell not obtained from this pool, or
// passing the same cell twice without an intervening Allocate, is
// undefined behavior.
func (p *Pool) Deallocate(c *Cell) {
	if c == nil {
		return
	}
	cl := p.classAt(c.Class)
	if cl == nil {
		return
	}
	cl.fl.push(c)
}
