package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/shell"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Run_StreamsOutput(t *testing.T) {
	executor := shell.NewExecutor(nil)

	cmd := domain.Command{
		Args: []string{"sh", "-c", "printf part1; sleep 0.1; echo part2; echo line2"},
		Dir:  t.TempDir(),
	}

	var stdout bytes.Buffer
	err := executor.Run(context.Background(), cmd, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "part1part2")
	assert.Contains(t, stdout.String(), "line2")
}

func TestExecutor_Run_Environment(t *testing.T) {
	executor := shell.NewExecutor(nil)

	cmd := domain.Command{
		Args: []string{"sh", "-c", "echo $OBJC_DISABLE_INITIALIZE_FORK_SAFETY"},
		Env:  map[string]string{"OBJC_DISABLE_INITIALIZE_FORK_SAFETY": "YES"},
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Run(context.Background(), cmd, &stdout, &stdout))
	assert.Contains(t, stdout.String(), "YES")
}

func TestExecutor_Run_WorkingDir(t *testing.T) {
	executor := shell.NewExecutor(nil)
	dir := t.TempDir()

	cmd := domain.Command{Args: []string{"sh", "-c", "touch marker"}, Dir: dir}
	require.NoError(t, executor.Run(context.Background(), cmd, io.Discard, io.Discard))

	assert.FileExists(t, filepath.Join(dir, "marker"))
}

func TestExecutor_Run_FailureCarriesExitCodeAndOutput(t *testing.T) {
	executor := shell.NewExecutor(nil)

	cmd := domain.Command{Args: []string{"sh", "-c", "echo 'error: bad input'; exit 3"}}

	err := executor.Run(context.Background(), cmd, io.Discard, io.Discard)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, 3, meta["exit_code"])
	assert.Equal(t, "sh -c echo 'error: bad input'; exit 3", meta["command"])
	assert.Contains(t, meta["output"], "error: bad input")
}

func TestExecutor_Run_MissingExecutable(t *testing.T) {
	executor := shell.NewExecutor(nil)

	cmd := domain.Command{Args: []string{"nonexistent-command-xyz123"}}
	err := executor.Run(context.Background(), cmd, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestExecutor_Run_EmptyCommand(t *testing.T) {
	executor := shell.NewExecutor(nil)
	require.NoError(t, executor.Run(context.Background(), domain.Command{}, nil, nil))
}

func TestExecutor_Run_PathOverride(t *testing.T) {
	executor := shell.NewExecutor(nil)

	binDir := t.TempDir()
	//nolint:gosec // test requires an executable file
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fake-lipo"), []byte("#!/bin/sh\necho merged\n"), 0o700))

	cmd := domain.Command{
		Args: []string{"fake-lipo"},
		Env:  map[string]string{"PATH": binDir},
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Run(context.Background(), cmd, &stdout, &stdout))
	assert.Contains(t, stdout.String(), "merged")
}

func TestExecutor_Output(t *testing.T) {
	executor := shell.NewExecutor(nil)

	out, err := executor.Output(context.Background(), domain.Command{
		Args: []string{"sh", "-c", "echo '0000000000000000 T _MREP_app_rb'; echo ignored >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000 T _MREP_app_rb\n", string(out))
}

func TestExecutor_Output_Failure(t *testing.T) {
	executor := shell.NewExecutor(nil)

	_, err := executor.Output(context.Background(), domain.Command{
		Args: []string{"sh", "-c", "echo 'no such file' >&2; exit 1"},
	})
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 1, zErr.Metadata()["exit_code"])
	assert.Equal(t, "no such file", zErr.Metadata()["output"])
}

func TestExecutor_Run_ForwardsLinesToLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Info("ld: warning: object built for newer version")

	executor := shell.NewExecutor(log)
	cmd := domain.Command{Args: []string{"sh", "-c", "echo 'ld: warning: object built for newer version'"}}

	require.NoError(t, executor.Run(context.Background(), cmd, io.Discard, io.Discard))
}
