package toolchain_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/toolchain"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeCompiler answers every request with an intermediate file containing the symbol.
const fakeCompiler = `#!/bin/sh
while IFS= read -r out; do
  [ "$out" = quit ] && exit 0
  IFS= read -r sym
  IFS= read -r src
  echo "$sym $VM_KERNEL_PATH" > "$out"
  echo done
done
`

func writeExe(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755)) //nolint:gosec // test executable
	return path
}

// newProject lays out a complete fake toolchain below a temp dir.
func newProject(t *testing.T, platform domain.Platform, archs ...domain.Arch) *domain.Project {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	data := filepath.Join(dir, "data")

	for _, a := range archs {
		kernel := filepath.Join(data, string(platform), "kernel-"+string(a)+".bc")
		require.NoError(t, os.MkdirAll(filepath.Dir(kernel), domain.DirPerm))
		require.NoError(t, os.WriteFile(kernel, []byte("bc"), domain.FilePerm))
	}

	return &domain.Project{
		Name: "demo",
		Root: dir,
		Config: domain.BuildConfig{
			Platform: platform,
			Archs:    archs,
			Toolchain: domain.Toolchain{
				Compiler:       writeExe(t, filepath.Join(bin, "ruby"), fakeCompiler),
				DataDir:        data,
				CC:             writeExe(t, filepath.Join(bin, "cc"), "#!/bin/sh\n"),
				CXX:            writeExe(t, filepath.Join(bin, "cxx"), "#!/bin/sh\n"),
				Lipo:           writeExe(t, filepath.Join(bin, "lipo"), "#!/bin/sh\n"),
				Nm:             writeExe(t, filepath.Join(bin, "nm"), "#!/bin/sh\n"),
				VersionMinFlag: "-miphoneos-version-min=12.0",
				OptLevel:       3,
				BridgeSupport:  []string{"/bs/UIKit.bridgesupport", "/bs/Foundation.bridgesupport"},
			},
		},
	}
}

func prepare(t *testing.T, exec ports.Executor, project *domain.Project) ports.Toolchain {
	t.Helper()
	tc, err := toolchain.NewProvider(exec, nil).Prepare(project)
	require.NoError(t, err)
	return tc
}

func TestPrepare_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.Project)
		wantErr error
		wantMsg string
	}{
		{
			name:    "no platform",
			mutate:  func(p *domain.Project) { p.Config.Platform = "" },
			wantErr: domain.ErrInvalidPlatform,
		},
		{
			name:    "no archs",
			mutate:  func(p *domain.Project) { p.Config.Archs = nil },
			wantErr: domain.ErrNoArchitectures,
		},
		{
			name:    "no compiler",
			mutate:  func(p *domain.Project) { p.Config.Toolchain.Compiler = "" },
			wantErr: domain.ErrToolchainMissing,
			wantMsg: "no compiler configured",
		},
		{
			name:    "compiler missing on disk",
			mutate:  func(p *domain.Project) { p.Config.Toolchain.Compiler = filepath.Join(p.Root, "nope") },
			wantErr: domain.ErrToolchainMissing,
		},
		{
			name: "kernel missing for one arch",
			mutate: func(p *domain.Project) {
				p.Config.Archs = append(p.Config.Archs, "x86_64")
			},
			wantErr: domain.ErrToolchainMissing,
			wantMsg: "kernel-x86_64.bc",
		},
		{
			name: "lipo not executable",
			mutate: func(p *domain.Project) {
				lipo := filepath.Join(p.Root, "lipo.txt")
				require.NoError(t, os.WriteFile(lipo, nil, domain.FilePerm))
				p.Config.Toolchain.Lipo = lipo
			},
			wantErr: domain.ErrToolchainMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := newProject(t, domain.PlatformIPhoneOS, "arm64")
			tt.mutate(project)

			_, err := toolchain.NewProvider(nil, nil).Prepare(project)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPrepare_CompilerPath(t *testing.T) {
	project := newProject(t, domain.PlatformIPhoneOS, "arm64")
	compiler := project.Config.Toolchain.Compiler
	assert.Equal(t, compiler, prepare(t, nil, project).CompilerPath())

	t.Setenv("PATH", filepath.Dir(compiler))
	project.Config.Toolchain.Compiler = filepath.Base(compiler)
	assert.Equal(t, compiler, prepare(t, nil, project).CompilerPath(), "a name from PATH resolves to the binary")
}

func TestPrepare_OnlyNeededBackendIsChecked(t *testing.T) {
	project := newProject(t, domain.PlatformIPhoneOS, "arm64")
	project.Config.Toolchain.CXX = filepath.Join(project.Root, "missing-cxx")
	_, err := toolchain.NewProvider(nil, nil).Prepare(project)
	require.NoError(t, err)

	tv := newProject(t, domain.PlatformAppleTVOS, "arm64")
	tv.Config.Toolchain.CC = filepath.Join(tv.Root, "missing-cc")
	_, err = toolchain.NewProvider(nil, nil).Prepare(tv)
	require.NoError(t, err)
}

func TestWorkerCommand(t *testing.T) {
	project := newProject(t, domain.PlatformIPhoneOS, "arm64", "armv7")
	project.Config.Toolchain.ArchTool = writeExe(t, filepath.Join(project.Root, "bin", "arch"), "#!/bin/sh\n")
	tc := prepare(t, nil, project)
	tool := project.Config.Toolchain

	cmd := toolchain.WorkerCommand(tc, "armv7")
	assert.Equal(t, []string{
		tool.ArchTool, "-arch", "i386", tool.Compiler,
		"--uses-bs", "/bs/UIKit.bridgesupport",
		"--uses-bs", "/bs/Foundation.bridgesupport",
		"--project_dir", project.Root, "--emit-llvm-fast", "",
	}, cmd.Args)
	assert.Equal(t, project.Root, cmd.Dir)
	assert.Equal(t, map[string]string{
		"OBJC_DISABLE_INITIALIZE_FORK_SAFETY": "YES",
		"RM_DATADIR_PATH":                     tool.DataDir,
		"VM_PLATFORM":                         "iPhoneOS",
		"VM_KERNEL_PATH":                      filepath.Join(tool.DataDir, "iPhoneOS", "kernel-armv7.bc"),
		"VM_OPT_LEVEL":                        "3",
	}, cmd.Env)

	cmd = toolchain.WorkerCommand(tc, "arm64")
	assert.Equal(t, "x86_64", cmd.Args[2])
}

func TestWorkerCommand_NoArchTool(t *testing.T) {
	project := newProject(t, domain.PlatformMacOSX, "x86_64")
	project.Config.Toolchain.BridgeSupport = nil
	tc := prepare(t, nil, project)

	cmd := toolchain.WorkerCommand(tc, "x86_64")
	assert.Equal(t, []string{
		project.Config.Toolchain.Compiler, "--project_dir", project.Root, "--emit-llvm-fast", "",
	}, cmd.Args)
}

func TestSpawn_RunsWorker(t *testing.T) {
	project := newProject(t, domain.PlatformIPhoneOS, "arm64")
	tc := prepare(t, nil, project)

	w, err := tc.Spawn(t.Context(), domain.WorkerKey{Slot: 0, Arch: "arm64"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Quit() })

	out := filepath.Join(project.Root, "main.rb.arm64.s")
	require.NoError(t, w.Compile(t.Context(), domain.CompileJob{
		IntermediatePath: out,
		Symbol:           "MREP_main_rb",
		SourcePath:       filepath.Join(project.Root, "main.rb"),
	}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	kernel := filepath.Join(project.Config.Toolchain.DataDir, "iPhoneOS", "kernel-arm64.bc")
	assert.Equal(t, "MREP_main_rb "+kernel+"\n", string(data))
}

func TestAssemble(t *testing.T) {
	job := domain.BackendJob{Arch: "arm64", IntermediatePath: "/b/main.rb.arm64.s", ObjectPath: "/b/main.rb.arm64.o"}

	t.Run("assembly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		project := newProject(t, domain.PlatformIPhoneOS, "arm64")
		tc := prepare(t, exec, project)
		out := &bytes.Buffer{}

		exec.EXPECT().Run(gomock.Any(), domain.Command{
			Args: []string{
				project.Config.Toolchain.CC, "-miphoneos-version-min=12.0",
				"-fexceptions", "-c", "-arch", "arm64", job.IntermediatePath, "-o", job.ObjectPath,
			},
			Dir: project.Root,
		}, out, out).Return(nil)

		require.NoError(t, tc.Assemble(t.Context(), job, out))
	})

	t.Run("bitcode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		project := newProject(t, domain.PlatformAppleTVOS, "arm64")
		project.Config.Toolchain.VersionMinFlag = ""
		tc := prepare(t, exec, project)

		exec.EXPECT().Run(gomock.Any(), domain.Command{
			Args: []string{
				project.Config.Toolchain.CXX, "-fembed-bitcode",
				"-fexceptions", "-c", "-arch", "arm64", job.IntermediatePath, "-o", job.ObjectPath,
			},
			Dir: project.Root,
		}, nil, nil).Return(nil)

		require.NoError(t, tc.Assemble(t.Context(), job, nil))
	})

	t.Run("failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		tc := prepare(t, exec, newProject(t, domain.PlatformIPhoneOS, "arm64"))

		cause := errors.New("exit status 1")
		exec.EXPECT().Run(gomock.Any(), gomock.Any(), nil, nil).Return(cause)

		err := tc.Assemble(t.Context(), job, nil)
		require.ErrorIs(t, err, domain.ErrBackendFailure)
		require.ErrorIs(t, err, cause)
	})
}

func TestMerge(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	project := newProject(t, domain.PlatformIPhoneOS, "arm64")
	tc := prepare(t, exec, project)
	lipo := project.Config.Toolchain.Lipo

	exec.EXPECT().Run(gomock.Any(), domain.Command{
		Args: []string{lipo, "-create", "a.arm64.o", "a.armv7.o", "-output", "a.o"},
		Dir:  project.Root,
	}, nil, nil).Return(nil)
	require.NoError(t, tc.Merge(t.Context(), []string{"a.arm64.o", "a.armv7.o"}, "a.o", nil))

	exec.EXPECT().Run(gomock.Any(), gomock.Any(), nil, nil).Return(errors.New("lipo: can't open input file"))
	err := tc.Merge(t.Context(), []string{"b.arm64.o"}, "b.o", nil)
	require.ErrorIs(t, err, domain.ErrMergeFailure)
}

func TestEntrySymbol(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		runErr  error
		want    domain.EntrySymbol
		wantErr error
	}{
		{
			name: "single match",
			output: "0000000000000000 t _rb_local\n" +
				"0000000000000010 T _MREP_app_main_rb\n" +
				"                 U _rb_define_method\n",
			want: "MREP_app_main_rb",
		},
		{
			name: "universal object lists the symbol once per arch",
			output: "\nmain.rb.o (for architecture armv7):\n00000000 T _MREP_5F0C1E2A\n" +
				"\nmain.rb.o (for architecture arm64):\n0000000000000000 T _MREP_5F0C1E2A\n",
			want: "MREP_5F0C1E2A",
		},
		{
			name:    "no match",
			output:  "0000000000000000 T _main\n",
			wantErr: domain.ErrSymbolRecoveryMissing,
		},
		{
			name:    "undefined reference does not count",
			output:  "                 U _MREP_other\n",
			wantErr: domain.ErrSymbolRecoveryMissing,
		},
		{
			name:    "two distinct matches",
			output:  "0000 T _MREP_a\n0010 T _MREP_b\n",
			wantErr: domain.ErrSymbolRecoveryAmbiguous,
		},
		{
			name:    "nm fails",
			runErr:  errors.New("nm: no such file"),
			wantErr: domain.ErrSymbolRecoveryMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := mocks.NewMockExecutor(ctrl)
			project := newProject(t, domain.PlatformIPhoneOS, "arm64")
			tc := prepare(t, exec, project)

			exec.EXPECT().Output(gomock.Any(), domain.Command{
				Args: []string{project.Config.Toolchain.Nm, "/objs/main.rb.o"},
				Dir:  project.Root,
			}).Return([]byte(tt.output), tt.runErr)

			got, err := tc.EntrySymbol(t.Context(), "/objs/main.rb.o")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
