// Package toolchain binds the native tools a build drives: compiler workers,
// the per-architecture backend, the universal-binary merger and the symbol lister.
package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/weld/internal/adapters/worker"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Default tool names, resolved through PATH.
const (
	DefaultCC   = "cc"
	DefaultCXX  = "c++"
	DefaultLipo = "lipo"
	DefaultNm   = "nm"
)

var _ ports.ToolchainProvider = (*Provider)(nil)

// Provider verifies a project's toolchain and binds it for one build.
type Provider struct {
	exec   ports.Executor
	logger ports.Logger
}

// NewProvider creates a new Provider.
func NewProvider(exec ports.Executor, logger ports.Logger) *Provider {
	return &Provider{exec: exec, logger: logger}
}

// Prepare checks that every binary and kernel file the build needs is present.
// Nothing is spawned or run until the check passes.
func (p *Provider) Prepare(project *domain.Project) (ports.Toolchain, error) {
	cfg := project.Config
	if cfg.Platform == "" {
		return nil, domain.ErrInvalidPlatform
	}
	if len(cfg.Archs) == 0 {
		return nil, domain.ErrNoArchitectures
	}

	tc := withDefaults(cfg.Toolchain)
	if tc.Compiler == "" {
		return nil, zerr.Wrap(domain.ErrToolchainMissing, "no compiler configured")
	}

	bins := []struct{ role, path string }{
		{"compiler", tc.Compiler},
		{"lipo", tc.Lipo},
		{"nm", tc.Nm},
	}
	if cfg.Platform.EmbedsBitcode() {
		bins = append(bins, struct{ role, path string }{"cxx", tc.CXX})
	} else {
		bins = append(bins, struct{ role, path string }{"cc", tc.CC})
	}
	if tc.ArchTool != "" {
		bins = append(bins, struct{ role, path string }{"arch_tool", tc.ArchTool})
	}
	resolved := make(map[string]string, len(bins))
	for _, b := range bins {
		path, err := resolve(b.path)
		if err != nil {
			return nil, missing(errors.Join(domain.ErrToolchainMissing, err), b.role, b.path)
		}
		resolved[b.role] = path
	}

	for _, arch := range cfg.Archs {
		kernel := tc.KernelPath(cfg.Platform, arch)
		if _, err := os.Stat(kernel); err != nil {
			err = zerr.With(errors.Join(domain.ErrToolchainMissing, err), "arch", arch.String())
			return nil, missing(err, "kernel", kernel)
		}
	}

	return &bound{exec: p.exec, logger: p.logger, project: project, tc: tc, compiler: resolved["compiler"]}, nil
}

func withDefaults(tc domain.Toolchain) domain.Toolchain {
	if tc.CC == "" {
		tc.CC = DefaultCC
	}
	if tc.CXX == "" {
		tc.CXX = DefaultCXX
	}
	if tc.Lipo == "" {
		tc.Lipo = DefaultLipo
	}
	if tc.Nm == "" {
		tc.Nm = DefaultNm
	}
	return tc
}

// resolve returns the absolute path of an executable given by path or by a bare name found in PATH.
func resolve(path string) (string, error) {
	if !strings.ContainsRune(path, os.PathSeparator) {
		found, err := exec.LookPath(path)
		if err != nil {
			return "", err
		}
		path = found
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return "", os.ErrPermission
	}
	return filepath.Abs(path)
}

func missing(err error, role, path string) error {
	err = zerr.With(err, "tool", role)
	return zerr.With(err, "path", path)
}

// bound is a verified toolchain for one project.
type bound struct {
	exec     ports.Executor
	logger   ports.Logger
	project  *domain.Project
	tc       domain.Toolchain
	compiler string
}

// CompilerPath returns the compiler as found when the toolchain was prepared.
func (b *bound) CompilerPath() string {
	return b.compiler
}

// Spawn starts a persistent compiler worker for one slot and architecture.
func (b *bound) Spawn(_ context.Context, key domain.WorkerKey) (ports.Worker, error) {
	p, err := worker.Start(key, b.workerCommand(key.Arch), b.logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (b *bound) workerCommand(arch domain.Arch) domain.Command {
	cfg := b.project.Config

	var args []string
	if b.tc.ArchTool != "" {
		args = append(args, b.tc.ArchTool, "-arch", arch.ExecArch().String())
	}
	args = append(args, b.tc.Compiler)
	for _, bs := range b.tc.BridgeSupport {
		args = append(args, "--uses-bs", bs)
	}
	args = append(args, "--project_dir", b.project.Root, "--emit-llvm-fast", "")

	return domain.Command{
		Args: args,
		Dir:  b.project.Root,
		Env: map[string]string{
			"OBJC_DISABLE_INITIALIZE_FORK_SAFETY": "YES",
			"RM_DATADIR_PATH":                     b.tc.DataDir,
			"VM_PLATFORM":                         cfg.Platform.String(),
			"VM_KERNEL_PATH":                      b.tc.KernelPath(cfg.Platform, arch),
			"VM_OPT_LEVEL":                        strconv.Itoa(b.tc.OptLevel),
		},
	}
}

// Assemble turns one intermediate file into a native single-architecture object.
func (b *bound) Assemble(ctx context.Context, job domain.BackendJob, out io.Writer) error {
	platform := b.project.Config.Platform

	args := []string{b.tc.CC}
	if platform.EmbedsBitcode() {
		args = []string{b.tc.CXX}
	}
	if b.tc.VersionMinFlag != "" {
		args = append(args, b.tc.VersionMinFlag)
	}
	if platform.EmbedsBitcode() {
		args = append(args, "-fembed-bitcode")
	}
	args = append(args, "-fexceptions", "-c", "-arch", job.Arch.String(), job.IntermediatePath, "-o", job.ObjectPath)

	if err := b.exec.Run(ctx, domain.Command{Args: args, Dir: b.project.Root}, out, out); err != nil {
		err = zerr.With(errors.Join(domain.ErrBackendFailure, err), "arch", job.Arch.String())
		return zerr.With(err, "intermediate", job.IntermediatePath)
	}
	return nil
}

// Merge combines single-architecture objects into one universal object.
func (b *bound) Merge(ctx context.Context, archObjects []string, output string, out io.Writer) error {
	args := make([]string, 0, len(archObjects)+4)
	args = append(args, b.tc.Lipo, "-create")
	args = append(args, archObjects...)
	args = append(args, "-output", output)

	if err := b.exec.Run(ctx, domain.Command{Args: args, Dir: b.project.Root}, out, out); err != nil {
		// lipo may leave a truncated output behind.
		_ = os.Remove(output)
		return zerr.With(errors.Join(domain.ErrMergeFailure, err), "output", output)
	}
	return nil
}

var entrySymbolLine = regexp.MustCompile(`T\s+_(` + domain.SymbolNamespace + `\S*)`)

// EntrySymbol recovers the entry symbol exported by an existing object.
// Exactly one distinct match is required.
func (b *bound) EntrySymbol(ctx context.Context, objectPath string) (domain.EntrySymbol, error) {
	out, err := b.exec.Output(ctx, domain.Command{Args: []string{b.tc.Nm, objectPath}, Dir: b.project.Root})
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrSymbolRecoveryMissing, err), "object", objectPath)
	}

	var found []domain.EntrySymbol
	seen := make(map[domain.EntrySymbol]struct{})
	for line := range strings.Lines(string(out)) {
		m := entrySymbolLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sym := domain.EntrySymbol(m[1])
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		found = append(found, sym)
	}

	switch len(found) {
	case 0:
		return "", zerr.With(zerr.Wrap(domain.ErrSymbolRecoveryMissing, "nm listed no entry symbol"), "object", objectPath)
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, s := range found {
			names[i] = s.String()
		}
		err := zerr.With(zerr.Wrap(domain.ErrSymbolRecoveryAmbiguous, "nm listed several entry symbols"), "object", objectPath)
		return "", zerr.With(err, "symbols", strings.Join(names, ", "))
	}
}
