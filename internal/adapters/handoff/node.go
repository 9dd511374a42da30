package handoff

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the object sink Graft node.
const NodeID graft.ID = "adapter.handoff"

func init() {
	graft.Register(graft.Node[ports.ObjectSink]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ObjectSink, error) {
			return NewSink(), nil
		},
	})
}
