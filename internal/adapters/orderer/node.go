package orderer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the module orderer Graft node.
const NodeID graft.ID = "adapter.orderer"

func init() {
	graft.Register(graft.Node[ports.ModuleOrderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleOrderer, error) {
			return NewOrderer(), nil
		},
	})
}
