package symbols

// NewAllocatorWithIDs creates an Allocator with a fixed ID source.
func NewAllocatorWithIDs(newID func() string) *Allocator {
	return &Allocator{newID: newID}
}
