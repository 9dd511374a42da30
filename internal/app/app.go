// Package app implements the application layer for weld.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/weld/internal/adapters/config"
	"go.trai.ch/weld/internal/adapters/detector"
	"go.trai.ch/weld/internal/adapters/linear"
	"go.trai.ch/weld/internal/adapters/telemetry"
	"go.trai.ch/weld/internal/adapters/tui"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	orderer      ports.ModuleOrderer
	toolchains   ports.ToolchainProvider
	oracle       ports.StalenessOracle
	allocator    ports.SymbolAllocator
	logs         ports.BuildLogOpener
	sink         ports.ObjectSink
	watcher      ports.Watcher
	logger       ports.Logger
	teaOptions   []tea.ProgramOption
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	orderer ports.ModuleOrderer,
	toolchains ports.ToolchainProvider,
	oracle ports.StalenessOracle,
	allocator ports.SymbolAllocator,
	logs ports.BuildLogOpener,
	sink ports.ObjectSink,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		orderer:      orderer,
		toolchains:   toolchains,
		oracle:       oracle,
		allocator:    allocator,
		logs:         logs,
		sink:         sink,
		watcher:      watcher,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects the progress renderers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// BuildOptions configuration for the Build method.
// Zero values leave the configured setting alone.
type BuildOptions struct {
	Spec                 bool
	Jobs                 int
	Archs                []string
	KeepTemps            bool
	DeterministicSymbols bool
	Staleness            string
	OutputMode           string
}

// Build compiles every module of the project found from the working directory
// and hands the result to the link step.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	_, err := a.build(ctx, opts)
	return err
}

// buildRun is what one build learned about the project, even when it failed.
type buildRun struct {
	project *domain.Project
	plan    domain.ModulePlan
}

//nolint:cyclop,funlen // orchestration function
func (a *App) build(ctx context.Context, opts BuildOptions) (buildRun, error) {
	var run buildRun

	// 1. Load the project
	cwd, err := os.Getwd()
	if err != nil {
		return run, zerr.Wrap(err, "failed to resolve working directory")
	}
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return run, zerr.Wrap(err, "failed to load configuration")
	}
	if err := applyOptions(project, opts); err != nil {
		return run, err
	}
	run.project = project

	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return run, err
	}

	// 2. Order the modules
	plan, err := a.orderer.OrderModules(project)
	if err != nil {
		return run, err
	}
	run.plan = plan

	// 3. Check the toolchain before any work starts
	toolchain, err := a.toolchains.Prepare(project)
	if err != nil {
		return run, err
	}

	// 4. Open the build log
	log := a.openLog(project)
	defer a.closeLog(log)
	a.note(log, domain.LogEntry{
		Level: domain.LogBuild,
		Title: "Build " + project.Name,
		Properties: map[string]string{
			"platform":  project.Config.Platform.String(),
			"archs":     joinArchs(project.Config.Archs),
			"modules":   strconv.Itoa(len(plan.Modules)),
			"staleness": string(project.Config.Staleness),
			"started":   time.Now().Format(time.RFC3339),
		},
	})

	// 5. Initialize Renderer
	renderer := a.newRenderer(ctx, detector.ResolveMode(detector.DetectEnvironment(), mode))

	// 6. Initialize Telemetry
	tracer := telemetry.NewOTelTracer("weld").WithRenderer(renderer)
	setupOTel(telemetry.NewBridge(tracer))

	sched := scheduler.NewScheduler(a.oracle, a.allocator, tracer, a.logger)

	// 7. Run Renderer and Scheduler concurrently
	var objs []domain.CompiledObject
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(a.stderr, "Scheduler panic: %v\n", r)
				err = zerr.With(zerr.Wrap(domain.ErrBuildExecutionFailed, "scheduler panicked"), "panic", fmt.Sprint(r))
			}
			// Output still queued in the tracer must reach the renderer before it stops.
			_ = tracer.Shutdown(context.WithoutCancel(gctx))
			_ = renderer.Stop()
		}()

		objs, err = sched.Run(gctx, scheduler.Request{
			Project:   project,
			Plan:      plan,
			Toolchain: toolchain,
			Log:       log,
		})
		if err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return run, err
	}

	// 8. Split and publish
	result := domain.BuildResult{Objects: objs}
	result.App, result.Spec = domain.SplitObjects(objs, plan.AppCount, plan.SpecCount)
	if plan.AppCount+plan.SpecCount != len(objs) {
		a.logger.Warn(fmt.Sprintf(
			"module counts do not add up: %d application and %d spec module(s) for %d object(s)",
			plan.AppCount, plan.SpecCount, len(objs)))
	}
	result.AnyBuilt = result.RebuiltCount() > 0

	if err := a.sink.Publish(ctx, project, result); err != nil {
		return run, err
	}

	summary := fmt.Sprintf("built %d of %d module(s)", result.RebuiltCount(), len(objs))
	a.note(log, domain.LogEntry{Level: domain.LogBuild, Title: "Result", Body: summary})
	a.logger.Info(summary)
	return run, nil
}

// applyOptions lets command line flags override the loaded configuration.
func applyOptions(project *domain.Project, opts BuildOptions) error {
	cfg := &project.Config
	if opts.Spec {
		project.SpecMode = true
	}
	if opts.Jobs != 0 {
		cfg.Slots = opts.Jobs
	}
	if len(opts.Archs) > 0 {
		archs := make([]domain.Arch, len(opts.Archs))
		for i, name := range opts.Archs {
			archs[i] = domain.Arch(name)
		}
		cfg.Archs = domain.UniqueArchs(archs)
	}
	if opts.KeepTemps {
		cfg.KeepTemps = true
	}
	if opts.DeterministicSymbols {
		cfg.DeterministicSymbols = true
	}
	if opts.Staleness != "" {
		cfg.Staleness = domain.StalenessMode(opts.Staleness)
	}
	return config.Validate(*cfg)
}

func (a *App) newRenderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(&model, optsTea...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// openLog starts the build log. A log that cannot be opened only costs the log.
func (a *App) openLog(project *domain.Project) ports.BuildLog {
	path := filepath.Join(project.Root, domain.DefaultBuildLogPath())
	log, err := a.logs.Open(path)
	if err != nil {
		a.logger.Warn("build log disabled: " + err.Error())
		return nil
	}
	return log
}

func (a *App) closeLog(log ports.BuildLog) {
	if log == nil {
		return
	}
	if err := log.Close(); err != nil {
		a.logger.Warn("build log: " + err.Error())
	}
}

func (a *App) note(log ports.BuildLog, entry domain.LogEntry) {
	if log == nil {
		return
	}
	entry.Topic = log.NextTopic()
	if err := log.Write(entry); err != nil {
		a.logger.Warn("build log: " + err.Error())
	}
}

func joinArchs(archs []domain.Arch) string {
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = a.String()
	}
	return strings.Join(names, " ")
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the common build directory shared between projects.
	All bool
}

// Clean removes build artifacts of the project found from the working directory.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}
	root, err := a.configLoader.DiscoverRoot(cwd)
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		root = cwd
	case err != nil:
		return err
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(root, domain.DefaultBuildPath()), "build tree")
	remove(filepath.Join(root, domain.DefaultStorePath()), "build info store")
	remove(filepath.Join(root, domain.DefaultBuildLogPath()), "build log")

	if options.All {
		dir := domain.DefaultCommonBuildDir()
		if project, err := a.configLoader.Load(cwd); err == nil && project.Config.CommonBuildDir != "" {
			dir = project.Config.CommonBuildDir
		}
		remove(dir, "common build directory")
	}

	return errs
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	// Every span started through otel.Tracer is reported to the renderer.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
