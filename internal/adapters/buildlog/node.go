package buildlog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the build log opener Graft node.
const NodeID graft.ID = "adapter.buildlog"

func init() {
	graft.Register(graft.Node[ports.BuildLogOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildLogOpener, error) {
			return NewOpener(), nil
		},
	})
}
