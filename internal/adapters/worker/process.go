// Package worker runs persistent compiler processes that speak a line protocol.
//
// A request is three lines: the intermediate output path, the entry symbol and the
// source path. The worker answers with one line once the job is done; its content is
// ignored. The line "quit" asks the worker to exit.
package worker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// QuitDirective is the line that asks a worker to exit.
const QuitDirective = "quit"

var _ ports.Worker = (*Process)(nil)

// Process is one running worker. It is not safe for concurrent Compile calls;
// the scheduler gives each worker a single slot.
type Process struct {
	key    domain.WorkerKey
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	logger ports.Logger

	mu      sync.Mutex
	quit    bool
	done    chan struct{}
	waitErr error
}

// Start launches a worker. The process is deliberately not bound to a context:
// workers are only ever stopped through Quit.
func Start(key domain.WorkerKey, c domain.Command, logger ports.Logger) (*Process, error) {
	if len(c.Args) == 0 {
		return nil, zerr.Wrap(domain.ErrWorkerSpawnFailed, "empty worker command")
	}

	cmd := exec.Command(c.Args[0], c.Args[1:]...) //nolint:gosec // compiler path comes from project config
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stderr = &lineLogger{logger: logger, prefix: fmt.Sprintf("[worker %d/%s] ", key.Slot, key.Arch)}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, spawnError(err, key)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, spawnError(err, key)
	}
	if err := cmd.Start(); err != nil {
		return nil, spawnError(err, key)
	}

	return &Process{
		key:    key,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Compile sends a job and blocks until the worker acknowledges it. There is no timeout:
// a worker that never answers blocks its caller.
func (p *Process) Compile(ctx context.Context, job domain.CompileJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quit {
		return p.annotate(zerr.Wrap(domain.ErrWorkerTerminated, "job submitted after quit"))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	request := job.IntermediatePath + "\n" + job.Symbol.String() + "\n" + job.SourcePath + "\n"
	if _, err := io.WriteString(p.stdin, request); err != nil {
		return p.annotate(errors.Join(domain.ErrWorkerDesync, err))
	}

	if _, err := p.stdout.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			err = zerr.Wrap(err, "worker exited before acknowledging")
		}
		return p.annotate(errors.Join(domain.ErrWorkerDesync, err))
	}

	return nil
}

// Quit sends the quit directive, closes the worker's input and reaps it in the background.
// The process is never killed; a worker that ignores the directive keeps running.
// Quit is idempotent.
func (p *Process) Quit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quit {
		return nil
	}
	p.quit = true

	_, writeErr := io.WriteString(p.stdin, QuitDirective+"\n")
	closeErr := p.stdin.Close()

	go func() {
		err := p.cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(p.done)
	}()

	if err := errors.Join(writeErr, closeErr); err != nil {
		return p.annotate(zerr.Wrap(err, "failed to send quit directive"))
	}
	return nil
}

// Done is closed once a worker that was told to quit has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// ExitErr returns the worker's exit status after Done is closed.
func (p *Process) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

func (p *Process) annotate(err error) error {
	err = zerr.With(err, "slot", p.key.Slot)
	return zerr.With(err, "arch", p.key.Arch.String())
}

func spawnError(err error, key domain.WorkerKey) error {
	err = zerr.With(errors.Join(domain.ErrWorkerSpawnFailed, err), "slot", key.Slot)
	return zerr.With(err, "arch", key.Arch.String())
}

// lineLogger forwards a worker's diagnostics to the logger one line at a time.
type lineLogger struct {
	mu     sync.Mutex
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if w.logger != nil {
			w.logger.Info(w.prefix + string(w.buf[:i]))
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}
