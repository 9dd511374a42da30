package staleness

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/adapters/cas"
	"go.trai.ch/weld/internal/adapters/fs"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the staleness oracle Graft node.
const NodeID graft.ID = "adapter.staleness"

func init() {
	graft.Register(graft.Node[ports.StalenessOracle]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.StalenessOracle, error) {
			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewOracle(store, hasher), nil
		},
	})
}
