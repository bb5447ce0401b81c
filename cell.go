package msgpool

// Cell is a handle to one fixed-size slot carved from a slab. Its Class
// field identifies which size class's free-list it must be returned to;
// keeping it in the handle, outside Data, means writes into the cell's
// bytes cannot send it back to the wrong free-list.
type Cell struct {
	// Data is the usable byte slice backing this cell. Its length is
	// always the Allocate caller's requested length; its capacity may be
	// as large as the owning class's cell size.
	Data []byte

	// Class is the size class this cell was carved from.
	Class int

	next *Cell // free-list link; valid only while the cell sits on a free-list
}
