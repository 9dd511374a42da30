package scheduler

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
)

// pool owns every compiler worker of one build. Workers are partitioned by slot and
// each slot is driven by a single goroutine, so no locking is needed.
type pool struct {
	slots []*slotWorkers
}

func newPool(factory ports.WorkerFactory, slots int) *pool {
	p := &pool{slots: make([]*slotWorkers, slots)}
	for i := range p.slots {
		p.slots[i] = &slotWorkers{
			factory: factory,
			slot:    i,
			live:    make(map[domain.Arch]ports.Worker),
		}
	}
	return p
}

// slot returns the workers of one slot.
func (p *pool) slot(i int) *slotWorkers {
	return p.slots[i]
}

// shutdown sends the quit directive to every live worker exactly once.
// It must only be called after every slot has drained.
func (p *pool) shutdown(logger ports.Logger) {
	for _, s := range p.slots {
		for _, arch := range slices.Sorted(maps.Keys(s.live)) {
			if err := s.live[arch].Quit(); err != nil {
				logger.Warn("compiler worker did not take the quit directive: " + err.Error())
			}
		}
		clear(s.live)
	}
}

// slotWorkers spawns workers for one slot on first use.
type slotWorkers struct {
	factory ports.WorkerFactory
	slot    int
	live    map[domain.Arch]ports.Worker
}

// Worker returns the slot's worker for arch, spawning it if needed.
func (s *slotWorkers) Worker(ctx context.Context, arch domain.Arch) (ports.Worker, error) {
	if w, ok := s.live[arch]; ok {
		return w, nil
	}
	w, err := s.factory.Spawn(ctx, domain.WorkerKey{Slot: s.slot, Arch: arch})
	if err != nil {
		return nil, err
	}
	s.live[arch] = w
	return w, nil
}
