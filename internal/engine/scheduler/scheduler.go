// Package scheduler compiles an ordered module list across concurrent job slots.
//
// Module i runs in slot i mod N. Slots run concurrently; within a slot modules are
// processed strictly in the order they were assigned, each on the slot's own compiler
// workers. Results land at the module's original index, so the output order always
// matches the input order.
package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/assembler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Request is one build handed to the scheduler.
type Request struct {
	Project   *domain.Project
	Plan      domain.ModulePlan
	Toolchain ports.Toolchain
	// Log receives the build log entries. It may be nil.
	Log ports.BuildLog
}

// Scheduler runs module builds.
type Scheduler struct {
	oracle    ports.StalenessOracle
	allocator ports.SymbolAllocator
	tracer    ports.Tracer
	logger    ports.Logger
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	oracle ports.StalenessOracle,
	allocator ports.SymbolAllocator,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		oracle:    oracle,
		allocator: allocator,
		tracer:    tracer,
		logger:    logger,
	}
}

// Run compiles every planned module and returns one CompiledObject per module, in plan order.
//
// A slot stops at its first failing module while the other slots drain their queues.
// Every worker is told to quit once all slots are done. Failures of all slots are joined.
func (s *Scheduler) Run(ctx context.Context, req Request) ([]domain.CompiledObject, error) {
	modules := req.Plan.Modules
	if len(modules) == 0 {
		return nil, nil
	}

	cfg := req.Project.Config
	slots := cfg.EffectiveSlots(len(modules))

	s.tracer.EmitPlan(ctx, req.Plan.Names(), req.Plan.Dependencies)

	state := &runState{
		s:        s,
		project:  req.Project,
		modules:  modules,
		slots:    slots,
		pool:     newPool(req.Toolchain, slots),
		symbols:  req.Toolchain,
		compiler: req.Toolchain.CompilerPath(),
		log:      req.Log,
		results:  make([]domain.CompiledObject, len(modules)),
		asm:      assembler.New(req.Toolchain, req.Toolchain, s.tracer, req.Log, s.logger),
	}

	errs := make([]error, slots)
	var g errgroup.Group
	for slot := range slots {
		g.Go(func() error {
			errs[slot] = state.runSlot(ctx, slot)
			return errs[slot]
		})
	}
	// Wait reports only the first failure; every slot's error is kept in errs.
	_ = g.Wait()

	state.pool.shutdown(s.logger)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := checkUnique(state.results); err != nil {
		return nil, err
	}
	return state.results, nil
}

type runState struct {
	s        *Scheduler
	project  *domain.Project
	modules  []domain.Module
	slots    int
	pool     *pool
	symbols  ports.SymbolTable
	compiler string
	log      ports.BuildLog
	asm      *assembler.Assembler
	// results is pre-sized; each slot only writes the indexes it owns.
	results []domain.CompiledObject
}

func (state *runState) runSlot(ctx context.Context, slot int) error {
	workers := state.pool.slot(slot)
	for i := slot; i < len(state.modules); i += state.slots {
		m := state.modules[i]
		obj, err := state.buildModule(ctx, slot, workers, m)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrModuleBuildFailed.Error()), "module", m.Name())
		}
		state.results[i] = obj
	}
	return nil
}

func (state *runState) buildModule(
	ctx context.Context,
	slot int,
	workers *slotWorkers,
	m domain.Module,
) (domain.CompiledObject, error) {
	ctx, span := state.s.tracer.Start(ctx, m.Name(),
		ports.WithAttribute(ports.AttrSlot, slot),
		ports.WithAttribute(ports.AttrModule, m.Path),
	)
	defer span.End()

	topic := state.nextTopic()
	state.note(domain.LogEntry{
		Topic: topic,
		Level: domain.LogModule,
		Title: "Compiling =" + m.Name() + "=",
		Properties: map[string]string{
			"slot":   strconv.Itoa(slot),
			"object": m.ObjectPath(),
		},
	})

	obj, err := state.compileOrReuse(ctx, workers, m, topic)
	if err != nil {
		span.RecordError(err)
		return domain.CompiledObject{}, err
	}
	span.SetAttribute(ports.AttrSymbol, obj.Symbol.String())
	span.SetAttribute(ports.AttrRebuilt, obj.Rebuilt)
	return obj, nil
}

func (state *runState) compileOrReuse(
	ctx context.Context,
	workers *slotWorkers,
	m domain.Module,
	topic uint64,
) (domain.CompiledObject, error) {
	cfg := state.project.Config
	query := domain.StalenessQuery{
		Mode:          cfg.Staleness,
		Root:          state.project.Root,
		SourcePath:    m.Path,
		ObjectPath:    m.ObjectPath(),
		ToolchainPath: state.compiler,
	}

	stale, err := state.s.oracle.NeedsRebuild(ctx, query)
	if err != nil {
		return domain.CompiledObject{}, err
	}

	if !stale {
		sym, err := state.recoverSymbol(ctx, query.ObjectPath)
		if err != nil {
			return domain.CompiledObject{}, err
		}
		state.note(domain.LogEntry{
			Topic:      topic,
			Level:      domain.LogStep,
			Title:      "Up to date",
			Properties: map[string]string{"symbol": sym.String()},
		})
		return domain.CompiledObject{Module: m, ObjectPath: query.ObjectPath, Symbol: sym}, nil
	}

	sym, err := state.s.allocator.Allocate(m, cfg.DeterministicSymbols)
	if err != nil {
		return domain.CompiledObject{}, err
	}

	dir := filepath.Dir(query.ObjectPath)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.CompiledObject{}, zerr.With(zerr.Wrap(err, domain.ErrObjectDirCreateFailed.Error()), "path", dir)
	}

	if err := state.asm.Assemble(ctx, assembler.Job{
		Module:    m,
		Symbol:    sym,
		Archs:     cfg.Archs,
		Platform:  cfg.Platform,
		KeepTemps: cfg.KeepTemps,
		Workers:   workers,
		Topic:     topic,
	}); err != nil {
		return domain.CompiledObject{}, err
	}

	if err := state.s.oracle.Record(ctx, query, sym); err != nil {
		state.s.logger.Warn("could not record build info for " + m.Name() + ": " + err.Error())
	}

	return domain.CompiledObject{Module: m, ObjectPath: query.ObjectPath, Symbol: sym, Rebuilt: true}, nil
}

// recoverSymbol reads the entry symbol back from an object that is reused as is.
func (state *runState) recoverSymbol(ctx context.Context, objectPath string) (domain.EntrySymbol, error) {
	sym, err := state.symbols.EntrySymbol(ctx, objectPath)
	if err != nil {
		return "", err
	}
	if !sym.Valid() {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidEntrySymbol, "recovered symbol is not an identifier"), "symbol", sym.String())
		return "", zerr.With(err, "object", objectPath)
	}
	return sym, nil
}

func (state *runState) nextTopic() uint64 {
	if state.log == nil {
		return 0
	}
	return state.log.NextTopic()
}

func (state *runState) note(entry domain.LogEntry) {
	if state.log == nil {
		return
	}
	if err := state.log.Write(entry); err != nil {
		state.s.logger.Warn("build log: " + err.Error())
	}
}

// checkUnique fails when two modules of the build export the same entry symbol.
func checkUnique(objs []domain.CompiledObject) error {
	owners := make(map[domain.EntrySymbol]string, len(objs))
	var errs error
	for _, o := range objs {
		prev, dup := owners[o.Symbol]
		if !dup {
			owners[o.Symbol] = o.Module.Name()
			continue
		}
		err := zerr.With(zerr.Wrap(domain.ErrDuplicateEntrySymbol, "two modules export one entry symbol"), "symbol", o.Symbol.String())
		errs = errors.Join(errs, zerr.With(err, "modules", prev+", "+o.Module.Name()))
	}
	return errs
}
