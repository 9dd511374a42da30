package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.trai.ch/weld/internal/adapters/detector"
	"go.trai.ch/weld/internal/adapters/watcher"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Watch builds once and then rebuilds whenever a module or the configuration changes.
// Builds never overlap. Build failures are logged and watching goes on until ctx is done.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}
	root, err := a.configLoader.DiscoverRoot(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher: " + err.Error())
		}
	}()

	// The interactive view would take over the terminal on every rebuild.
	opts.OutputMode = detector.ModeLinear.String()

	w := &watchState{app: a, opts: opts}

	rebuild := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case rebuild <- paths:
		default:
			// A rebuild is already pending and reads every file anew.
		}
	})
	defer debouncer.Stop()

	w.rebuild(ctx)

	go func() {
		for event := range a.watcher.Events() {
			if w.relevant(event) {
				debouncer.Add(event.Path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-rebuild:
			a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(paths)))
			w.rebuild(ctx)
		}
	}
}

// watchSet is the set of files a change to which triggers a rebuild.
type watchSet struct {
	files map[string]struct{}
	exts  map[string]struct{}
}

type watchState struct {
	app     *App
	opts    BuildOptions
	watched atomic.Pointer[watchSet]
}

func (w *watchState) rebuild(ctx context.Context) {
	run, err := w.app.build(ctx, w.opts)
	if len(run.plan.Modules) > 0 {
		w.watched.Store(newWatchSet(run.plan))
	}
	if err != nil && ctx.Err() == nil {
		w.app.logger.Error(err)
	}
}

func newWatchSet(plan domain.ModulePlan) *watchSet {
	set := &watchSet{
		files: make(map[string]struct{}, len(plan.Modules)),
		exts:  make(map[string]struct{}),
	}
	for _, m := range plan.Modules {
		set.files[filepath.Clean(m.Path)] = struct{}{}
		if ext := filepath.Ext(m.Path); ext != "" {
			set.exts[ext] = struct{}{}
		}
	}
	return set
}

// relevant reports whether an event should trigger a rebuild. Until a build has
// produced a module list every change counts.
func (w *watchState) relevant(event ports.WatchEvent) bool {
	path := filepath.Clean(event.Path)
	if filepath.Base(path) == domain.ConfigFileName {
		return true
	}

	set := w.watched.Load()
	if set == nil {
		return true
	}
	if _, ok := set.files[path]; ok {
		return true
	}

	// A new file may match a glob in the configuration.
	if event.Operation == ports.OpCreate || event.Operation == ports.OpRename {
		_, ok := set.exts[filepath.Ext(path)]
		return ok
	}
	return false
}
