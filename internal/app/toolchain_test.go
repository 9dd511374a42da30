package app_test

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
)

// fakeToolchain compiles by writing the entry symbol through every stage, so the
// fat object starts with the symbol EntrySymbol reads back.
type fakeToolchain struct {
	mu     sync.Mutex
	silent bool
	quits  int
}

var _ ports.Toolchain = (*fakeToolchain)(nil)

func (tc *fakeToolchain) Spawn(_ context.Context, _ domain.WorkerKey) (ports.Worker, error) {
	return &fakeWorker{tc: tc}, nil
}

func (tc *fakeToolchain) Assemble(_ context.Context, job domain.BackendJob, out io.Writer) error {
	data, err := os.ReadFile(job.IntermediatePath)
	if err != nil {
		return err
	}
	_, _ = io.WriteString(out, "assembled "+job.Arch.String()+"\n")
	return os.WriteFile(job.ObjectPath, data, domain.PrivateFilePerm)
}

func (tc *fakeToolchain) Merge(_ context.Context, archObjects []string, output string, _ io.Writer) error {
	data, err := os.ReadFile(archObjects[0])
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, domain.PrivateFilePerm)
}

func (tc *fakeToolchain) CompilerPath() string {
	return ""
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
	return domain.EntrySymbol(strings.TrimSpace(sc.Text())), nil
}

type fakeWorker struct {
	tc *fakeToolchain
}

func (w *fakeWorker) Compile(_ context.Context, job domain.CompileJob) error {
	w.tc.mu.Lock()
	silent := w.tc.silent
	w.tc.mu.Unlock()
	if silent {
		return nil
	}
	return os.WriteFile(job.IntermediatePath, []byte(job.Symbol.String()), domain.PrivateFilePerm)
}

func (w *fakeWorker) Quit() error {
	w.tc.mu.Lock()
	defer w.tc.mu.Unlock()
	w.tc.quits++
	return nil
}
