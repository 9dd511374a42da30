// Package shell runs one-shot toolchain commands such as the native backend, lipo and nm.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// tailLines is how many trailing output lines a failed command reports.
const tailLines = 20

// Executor implements ports.Executor using os/exec, running commands under a PTY when possible.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Run executes the command and waits for it to complete. Output is streamed to stdout;
// under a PTY stderr is merged into it.
func (e *Executor) Run(ctx context.Context, c domain.Command, stdout, stderr io.Writer) error {
	if len(c.Args) == 0 {
		return nil
	}

	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	tail := &lineWriter{limit: tailLines}
	stdoutLog := &lineWriter{onLine: e.logInfo}
	stderrLog := &lineWriter{onLine: e.logError}

	err := e.runPTY(ctx, c, io.MultiWriter(stdout, stdoutLog, tail))
	if errors.Is(err, errPTYUnavailable) {
		err = runPipes(ctx, c,
			io.MultiWriter(stdout, stdoutLog, tail),
			io.MultiWriter(stderr, stderrLog, tail),
		)
	}
	_ = stdoutLog.Close()
	_ = stderrLog.Close()
	_ = tail.Close()

	if err != nil {
		return commandError(err, c, tail.String())
	}
	return nil
}

// Output executes the command without a PTY and returns its standard output.
func (e *Executor) Output(ctx context.Context, c domain.Command) ([]byte, error) {
	if len(c.Args) == 0 {
		return nil, nil
	}

	cmd := newCmd(ctx, c)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, commandError(err, c, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

var errPTYUnavailable = errors.New("pty unavailable")

func (e *Executor) logInfo(line string) {
	if e.logger != nil {
		e.logger.Info(line)
	}
}

func (e *Executor) logError(line string) {
	if e.logger != nil {
		e.logger.Error(zerr.New(line))
	}
}

func (e *Executor) runPTY(ctx context.Context, c domain.Command, out io.Writer) error {
	cmd := newCmd(ctx, c)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		if cmd.Process == nil {
			if e.logger != nil {
				e.logger.Warn("could not start under a pty, retrying with pipes: " + err.Error())
			}
			return errPTYUnavailable
		}
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	return err
}

func runPipes(ctx context.Context, c domain.Command, stdout, stderr io.Writer) error {
	cmd := newCmd(ctx, c)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

func newCmd(ctx context.Context, c domain.Command) *exec.Cmd {
	name := c.Args[0]
	cmdEnv := resolveEnvironment(os.Environ(), c.Env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args[1:]...) //nolint:gosec // toolchain paths come from project config
	cmd.Args[0] = name
	cmd.Dir = c.Dir
	cmd.Env = cmdEnv
	return cmd
}

func commandError(err error, c domain.Command, output string) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	err = zerr.With(err, "command", strings.Join(c.Args, " "))
	if output != "" {
		err = zerr.With(err, "output", output)
	}
	return err
}

// lineWriter splits output into lines. Each line is passed to onLine when set,
// and the last limit lines are kept when limit is positive.
type lineWriter struct {
	mu     sync.Mutex
	limit  int
	onLine func(string)
	buf    []byte
	lines  []string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.addLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.addLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *lineWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.lines, "\n")
}

func (w *lineWriter) addLine(line []byte) {
	// PTYs terminate lines with \r\n.
	msg := strings.TrimSuffix(string(line), "\r")
	if w.onLine != nil {
		w.onLine(msg)
	}
	if w.limit <= 0 {
		return
	}
	w.lines = append(w.lines, msg)
	if len(w.lines) > w.limit {
		w.lines = w.lines[len(w.lines)-w.limit:]
	}
}

// allowListedEnvVars are the system environment variables inherited by toolchain commands.
var allowListedEnvVars = map[string]struct{}{
	"HOME":          {},
	"TERM":          {},
	"USER":          {},
	"PATH":          {},
	"TMPDIR":        {},
	"DEVELOPER_DIR": {},
	"SDKROOT":       {},
}

// resolveEnvironment filters the system environment through the allow-list and applies overrides.
// A PATH override is prepended to the inherited PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the PATH of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
