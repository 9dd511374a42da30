package assembler_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/telemetry"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/core/ports/mocks"
	"go.trai.ch/weld/internal/engine/assembler"
	"go.uber.org/mock/gomock"
)

type fakeWorkers map[domain.Arch]ports.Worker

func (f fakeWorkers) Worker(_ context.Context, arch domain.Arch) (ports.Worker, error) {
	w, ok := f[arch]
	if !ok {
		return nil, domain.ErrWorkerSpawnFailed
	}
	return w, nil
}

type fixture struct {
	backend *mocks.MockBackend
	merger  *mocks.MockMerger
	logger  *mocks.MockLogger
	asm     *assembler.Assembler
	module  domain.Module
}

func newFixture(t *testing.T, log ports.BuildLog) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		backend: mocks.NewMockBackend(ctrl),
		merger:  mocks.NewMockMerger(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		module: domain.Module{
			Path:     "/src/app/main.rb",
			RelPath:  "app/main.rb",
			BuildDir: t.TempDir(),
		},
	}
	f.asm = assembler.New(f.backend, f.merger, telemetry.NewNoOpTracer(), log, f.logger)
	return f
}

// compiles returns a worker that writes the requested intermediate file and acknowledges.
func compiles(ctrl *gomock.Controller, times int) *mocks.MockWorker {
	w := mocks.NewMockWorker(ctrl)
	w.EXPECT().Compile(gomock.Any(), gomock.Any()).Times(times).DoAndReturn(
		func(_ context.Context, job domain.CompileJob) error {
			return os.WriteFile(job.IntermediatePath, []byte(job.Symbol.String()), domain.PrivateFilePerm)
		})
	return w
}

func (f *fixture) job(workers assembler.Workers, archs ...domain.Arch) assembler.Job {
	return assembler.Job{
		Module:   f.module,
		Symbol:   "MREP_app_main_rb",
		Archs:    archs,
		Platform: domain.PlatformIPhoneOS,
		Workers:  workers,
		Topic:    7,
	}
}

func TestAssemble_AllArchs(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	arm64, x8664 := compiles(ctrl, 1), compiles(ctrl, 1)

	var seen []domain.CompileJob
	gomock.InOrder(
		f.backend.EXPECT().Assemble(gomock.Any(), domain.BackendJob{
			Arch:             "arm64",
			IntermediatePath: f.module.IntermediatePath("arm64", "s"),
			ObjectPath:       f.module.ArchObjectPath("arm64"),
		}, gomock.Any()).DoAndReturn(func(_ context.Context, job domain.BackendJob, _ io.Writer) error {
			data, err := os.ReadFile(job.IntermediatePath)
			require.NoError(t, err)
			seen = append(seen, domain.CompileJob{IntermediatePath: job.IntermediatePath, Symbol: domain.EntrySymbol(data)})
			return nil
		}),
		f.backend.EXPECT().Assemble(gomock.Any(), domain.BackendJob{
			Arch:             "x86_64",
			IntermediatePath: f.module.IntermediatePath("x86_64", "s"),
			ObjectPath:       f.module.ArchObjectPath("x86_64"),
		}, gomock.Any()).Return(nil),
		f.merger.EXPECT().Merge(gomock.Any(),
			[]string{f.module.ArchObjectPath("arm64"), f.module.ArchObjectPath("x86_64")},
			f.module.ObjectPath(), gomock.Any(),
		).Return(nil),
	)

	err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": arm64, "x86_64": x8664}, "arm64", "x86_64"))
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, domain.EntrySymbol("MREP_app_main_rb"), seen[0].Symbol)
	assert.NoFileExists(t, f.module.IntermediatePath("arm64", "s"))
	assert.NoFileExists(t, f.module.IntermediatePath("x86_64", "s"))
}

func TestAssemble_KeepTemps(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)

	f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	job := f.job(fakeWorkers{"arm64": compiles(ctrl, 1)}, "arm64")
	job.KeepTemps = true
	require.NoError(t, f.asm.Assemble(t.Context(), job))

	assert.FileExists(t, f.module.IntermediatePath("arm64", "s"))
}

func TestAssemble_BitcodeExtension(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)

	f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.BackendJob, _ io.Writer) error {
			assert.Equal(t, ".bc", filepath.Ext(job.IntermediatePath))
			return nil
		})
	f.merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	job := f.job(fakeWorkers{"arm64": compiles(ctrl, 1)}, "arm64")
	job.Platform = domain.PlatformAppleTVOS
	require.NoError(t, f.asm.Assemble(t.Context(), job))
}

func TestAssemble_CompilationFailure(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)

	// The worker acknowledges but writes nothing.
	silent := mocks.NewMockWorker(ctrl)
	silent.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil)

	err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": silent}, "arm64"))
	require.ErrorIs(t, err, domain.ErrCompilationFailure)
	assert.NoFileExists(t, f.module.ObjectPath())
}

func TestAssemble_StaleIntermediateIsNotOutput(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)

	leftover := f.module.IntermediatePath("arm64", "s")
	require.NoError(t, os.MkdirAll(filepath.Dir(leftover), domain.DirPerm))
	require.NoError(t, os.WriteFile(leftover, []byte("old"), domain.PrivateFilePerm))

	silent := mocks.NewMockWorker(ctrl)
	silent.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil)

	err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": silent}, "arm64"))
	require.ErrorIs(t, err, domain.ErrCompilationFailure)
}

func TestAssemble_SecondArchFails(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)

	gomock.InOrder(
		f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrBackendFailure),
	)
	// No Merge expectation: a partial fat object must never be written.

	err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{
		"arm64":  compiles(ctrl, 1),
		"x86_64": compiles(ctrl, 1),
	}, "arm64", "x86_64"))
	require.ErrorIs(t, err, domain.ErrBackendFailure)
	assert.NoFileExists(t, f.module.ObjectPath())
}

func TestAssemble_WorkerErrors(t *testing.T) {
	t.Run("spawn", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{}, "arm64"))
		require.ErrorIs(t, err, domain.ErrWorkerSpawnFailed)
	})

	t.Run("desync", func(t *testing.T) {
		f := newFixture(t, nil)
		ctrl := gomock.NewController(t)
		w := mocks.NewMockWorker(ctrl)
		w.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(domain.ErrWorkerDesync)

		err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": w}, "arm64"))
		require.ErrorIs(t, err, domain.ErrWorkerDesync)
	})

	t.Run("no architectures", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.asm.Assemble(t.Context(), f.job(fakeWorkers{}))
		require.ErrorIs(t, err, domain.ErrNoArchitectures)
	})
}

func TestAssemble_BuildLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockBuildLog(ctrl)
	f := newFixture(t, log)

	var entries []domain.LogEntry
	log.EXPECT().Write(gomock.Any()).AnyTimes().DoAndReturn(func(e domain.LogEntry) error {
		entries = append(entries, e)
		return nil
	})
	f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": compiles(ctrl, 1)}, "arm64")))

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
		assert.Equal(t, uint64(7), e.Topic)
		assert.Equal(t, domain.LogStep, e.Level)
	}
	assert.Equal(t, []string{
		"IR Generation",
		"Native Object Generation",
		"Compilation Result: Succeeded",
		"Fat Binary Generation",
	}, titles)
	assert.Equal(t, "succeeded", entries[2].Properties["result"])
}

func TestAssemble_BuildLogWriteFailureWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockBuildLog(ctrl)
	f := newFixture(t, log)

	log.EXPECT().Write(gomock.Any()).AnyTimes().Return(errors.New("disk full"))
	f.logger.EXPECT().Warn(gomock.Any()).MinTimes(1)
	f.backend.EXPECT().Assemble(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, f.asm.Assemble(t.Context(), f.job(fakeWorkers{"arm64": compiles(ctrl, 1)}, "arm64")))
}
