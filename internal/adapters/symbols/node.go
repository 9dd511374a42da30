package symbols

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the symbol allocator Graft node.
const NodeID graft.ID = "adapter.symbols"

func init() {
	graft.Register(graft.Node[ports.SymbolAllocator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SymbolAllocator, error) {
			return NewAllocator(), nil
		},
	})
}
