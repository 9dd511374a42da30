// Package assembler turns one module into a multi-architecture object.
//
// Every configured architecture is compiled by the slot's persistent worker and then
// lowered to a native object by a one-shot backend run. The per-architecture objects
// are merged into the module's fat object only once every architecture succeeded.
package assembler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Workers hands out the compiler worker for one architecture of a slot.
type Workers interface {
	Worker(ctx context.Context, arch domain.Arch) (ports.Worker, error)
}

// Job is one module to assemble.
type Job struct {
	Module    domain.Module
	Symbol    domain.EntrySymbol
	Archs     []domain.Arch
	Platform  domain.Platform
	KeepTemps bool
	Workers   Workers
	// Topic tags the build log entries written for this module.
	Topic uint64
}

// Assembler runs the compile, backend and merge steps for a module.
type Assembler struct {
	backend ports.Backend
	merger  ports.Merger
	tracer  ports.Tracer
	log     ports.BuildLog
	logger  ports.Logger
}

// New creates an Assembler. log may be nil.
func New(
	backend ports.Backend,
	merger ports.Merger,
	tracer ports.Tracer,
	log ports.BuildLog,
	logger ports.Logger,
) *Assembler {
	return &Assembler{
		backend: backend,
		merger:  merger,
		tracer:  tracer,
		log:     log,
		logger:  logger,
	}
}

// Assemble builds the module's fat object. The first failing architecture aborts the
// module and nothing is merged.
func (a *Assembler) Assemble(ctx context.Context, job Job) error {
	if len(job.Archs) == 0 {
		return domain.ErrNoArchitectures
	}

	ext := job.Platform.IntermediateExt()
	archObjects := make([]string, 0, len(job.Archs))
	for _, arch := range job.Archs {
		obj, err := a.buildArch(ctx, job, arch, ext)
		if err != nil {
			return err
		}
		archObjects = append(archObjects, obj)
	}

	return a.merge(ctx, job, archObjects)
}

func (a *Assembler) buildArch(ctx context.Context, job Job, arch domain.Arch, ext string) (string, error) {
	m := job.Module
	intermediate := m.IntermediatePath(arch, ext)
	archObject := m.ArchObjectPath(arch)
	start := time.Now()

	dir := filepath.Dir(intermediate)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrObjectDirCreateFailed.Error()), "path", dir)
	}
	// A temporary left behind by an earlier build must not pass for this job's output.
	if err := os.Remove(intermediate); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", zerr.With(zerr.Wrap(err, "failed to remove stale intermediate file"), "path", intermediate)
	}

	if err := a.compile(ctx, job, arch, intermediate); err != nil {
		a.note(job, result("Failed", arch, start, err))
		return "", err
	}

	if err := a.backendStep(ctx, job, domain.BackendJob{
		Arch:             arch,
		IntermediatePath: intermediate,
		ObjectPath:       archObject,
	}); err != nil {
		a.note(job, result("Failed", arch, start, err))
		return "", err
	}

	if !job.KeepTemps {
		if err := os.Remove(intermediate); err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("could not remove " + intermediate + ": " + err.Error())
		}
	}

	a.note(job, result("Succeeded", arch, start, nil))
	return archObject, nil
}

func (a *Assembler) compile(ctx context.Context, job Job, arch domain.Arch, intermediate string) error {
	ctx, span := a.tracer.Start(ctx, "compile", ports.WithAttribute(ports.AttrArch, arch.String()))
	defer span.End()

	w, err := job.Workers.Worker(ctx, arch)
	if err != nil {
		span.RecordError(err)
		return err
	}

	req := domain.CompileJob{
		IntermediatePath: intermediate,
		Symbol:           job.Symbol,
		SourcePath:       job.Module.Path,
	}
	a.note(job, domain.LogEntry{
		Level:      domain.LogStep,
		Title:      "IR Generation",
		Lang:       "sh",
		Body:       strings.Join([]string{req.IntermediatePath, req.Symbol.String(), req.SourcePath}, "\n"),
		Properties: map[string]string{"arch": arch.String()},
	})

	if err := w.Compile(ctx, req); err != nil {
		span.RecordError(err)
		return err
	}

	if _, err := os.Stat(intermediate); err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrCompilationFailure, "worker acknowledged without an intermediate file"), "arch", arch.String())
		err = zerr.With(err, "intermediate", intermediate)
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *Assembler) backendStep(ctx context.Context, job Job, bj domain.BackendJob) error {
	ctx, span := a.tracer.Start(ctx, "assemble", ports.WithAttribute(ports.AttrArch, bj.Arch.String()))
	defer span.End()

	a.note(job, domain.LogEntry{
		Level:      domain.LogStep,
		Title:      "Native Object Generation",
		Lang:       "sh",
		Body:       bj.IntermediatePath + " -> " + bj.ObjectPath,
		Properties: map[string]string{"arch": bj.Arch.String()},
	})

	if err := a.backend.Assemble(ctx, bj, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *Assembler) merge(ctx context.Context, job Job, archObjects []string) error {
	ctx, span := a.tracer.Start(ctx, "merge")
	defer span.End()

	output := job.Module.ObjectPath()
	a.note(job, domain.LogEntry{
		Level: domain.LogStep,
		Title: "Fat Binary Generation",
		Lang:  "sh",
		Body:  strings.Join(archObjects, "\n") + "\n-> " + output,
	})

	if err := a.merger.Merge(ctx, archObjects, output, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *Assembler) note(job Job, entry domain.LogEntry) {
	if a.log == nil {
		return
	}
	entry.Topic = job.Topic
	if err := a.log.Write(entry); err != nil {
		a.logger.Warn("build log: " + err.Error())
	}
}

func result(outcome string, arch domain.Arch, start time.Time, err error) domain.LogEntry {
	end := time.Now()
	props := map[string]string{
		"arch":       arch.String(),
		"result":     strings.ToLower(outcome),
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
		"duration":   end.Sub(start).Round(time.Millisecond).String(),
	}
	entry := domain.LogEntry{
		Level:      domain.LogStep,
		Title:      "Compilation Result: " + outcome,
		Properties: props,
	}
	if err != nil {
		entry.Body = err.Error()
	}
	return entry
}
