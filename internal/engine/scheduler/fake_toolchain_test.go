package scheduler_test

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
)

// fakeToolchain records how a build drives its workers.
//
// Workers write the entry symbol into the intermediate file. The backend appends the
// architecture, and the merge writes the symbol followed by the merged architectures,
// so EntrySymbol can read it back from the fat object.
type fakeToolchain struct {
	mu       sync.Mutex
	compiler string
	delays   map[string]time.Duration
	silent   map[string]bool
	workers  map[domain.WorkerKey]*fakeWorker
	spawns   int
	merges   []string
}

var _ ports.Toolchain = (*fakeToolchain)(nil)

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		delays:  make(map[string]time.Duration),
		silent:  make(map[string]bool),
		workers: make(map[domain.WorkerKey]*fakeWorker),
	}
}

func (tc *fakeToolchain) Spawn(_ context.Context, key domain.WorkerKey) (ports.Worker, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.spawns++
	w := &fakeWorker{tc: tc, key: key}
	tc.workers[key] = w
	return w, nil
}

func (tc *fakeToolchain) Assemble(_ context.Context, job domain.BackendJob, _ io.Writer) error {
	data, err := os.ReadFile(job.IntermediatePath)
	if err != nil {
		return err
	}
	return os.WriteFile(job.ObjectPath, []byte(string(data)+"\n"+job.Arch.String()), domain.PrivateFilePerm)
}

func (tc *fakeToolchain) Merge(_ context.Context, archObjects []string, output string, _ io.Writer) error {
	var sym string
	archs := make([]string, 0, len(archObjects))
	for _, obj := range archObjects {
		data, err := os.ReadFile(obj)
		if err != nil {
			return err
		}
		s, arch, _ := strings.Cut(string(data), "\n")
		sym = s
		archs = append(archs, arch)
	}

	tc.mu.Lock()
	tc.merges = append(tc.merges, output)
	tc.mu.Unlock()

	return os.WriteFile(output, []byte(sym+"\n"+strings.Join(archs, ",")), domain.PrivateFilePerm)
}

func (tc *fakeToolchain) CompilerPath() string {
	return tc.compiler
}

func (tc *fakeToolchain) EntrySymbol(_ context.Context, objectPath string) (domain.EntrySymbol, error) {
	f, err := os.Open(objectPath)
	if err != nil {
		return "", domain.ErrSymbolRecoveryMissing
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", domain.ErrSymbolRecoveryMissing
	}
	return domain.EntrySymbol(sc.Text()), nil
}

// jobs returns the source paths a worker compiled, in order.
func (tc *fakeToolchain) jobs(key domain.WorkerKey) []string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	w, ok := tc.workers[key]
	if !ok {
		return nil
	}
	return append([]string(nil), w.sources...)
}

// compiled returns every source path compiled for any worker.
func (tc *fakeToolchain) compiled() map[string]int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	counts := make(map[string]int)
	for _, w := range tc.workers {
		for _, src := range w.sources {
			counts[src]++
		}
	}
	return counts
}

type fakeWorker struct {
	tc      *fakeToolchain
	key     domain.WorkerKey
	sources []string
	quits   int
}

func (w *fakeWorker) Compile(_ context.Context, job domain.CompileJob) error {
	w.tc.mu.Lock()
	w.sources = append(w.sources, job.SourcePath)
	delay := w.tc.delays[job.SourcePath]
	silent := w.tc.silent[job.SourcePath]
	w.tc.mu.Unlock()

	time.Sleep(delay)
	if silent {
		return nil
	}
	return os.WriteFile(job.IntermediatePath, []byte(job.Symbol.String()), domain.PrivateFilePerm)
}

func (w *fakeWorker) Quit() error {
	w.tc.mu.Lock()
	defer w.tc.mu.Unlock()
	w.quits++
	return nil
}
