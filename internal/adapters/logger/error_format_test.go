package logger_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/weld/internal/adapters/logger"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
)

// moduleFailure builds a module error the way the scheduler reports it.
func moduleFailure(module string, cause error) error {
	return zerr.With(zerr.Wrap(cause, domain.ErrModuleBuildFailed.Error()), "module", module)
}

func backendFailure() error {
	return zerr.With(errors.Join(domain.ErrBackendFailure, errors.New("exit status 1")), "arch", "x86_64")
}

func workerDesync() error {
	err := zerr.With(errors.Join(domain.ErrWorkerDesync, io.EOF), "slot", 1)
	return zerr.With(err, "arch", "arm64")
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "plain error",
			err:          io.ErrUnexpectedEOF,
			wantMessages: []string{"unexpected EOF"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "sentinel",
			err:          domain.ErrNoModules,
			wantMessages: []string{"no modules to build"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name:         "wrapped sentinel keeps both messages",
			err:          zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "searched every parent directory"), "cwd", "/src/app"),
			wantMessages: []string{"searched every parent directory", "could not find weld.yaml"},
			wantMetadata: []map[string]any{{"cwd": "/src/app"}, {}},
		},
		{
			name: "module failure with backend cause",
			err:  moduleFailure("app/a.rb", backendFailure()),
			wantMessages: []string{
				"module build failed",
				"native backend failed",
				"exit status 1",
			},
			wantMetadata: []map[string]any{
				{"module": "app/a.rb"},
				{"arch": "x86_64"},
				nil,
			},
		},
		{
			name: "metadata on a joined cause folds into its first branch",
			err:  workerDesync(),
			wantMessages: []string{
				"compiler worker out of sync",
				"EOF",
			},
			wantMetadata: []map[string]any{
				{"slot": 1, "arch": "arm64"},
				nil,
			},
		},
		{
			name: "failures of several modules",
			err: errors.Join(domain.ErrBuildExecutionFailed, errors.Join(
				moduleFailure("app/a.rb", backendFailure()),
				moduleFailure("app/b.rb", workerDesync()),
			)),
			wantMessages: []string{
				"build execution failed",
				"module build failed",
				"native backend failed",
				"exit status 1",
				"module build failed",
				"compiler worker out of sync",
				"EOF",
			},
			wantMetadata: []map[string]any{
				{},
				{"module": "app/a.rb"},
				{"arch": "x86_64"},
				nil,
				{"module": "app/b.rb"},
				{"slot": 1, "arch": "arm64"},
				nil,
			},
		},
		{
			name:         "nil",
			err:          nil,
			wantMessages: nil,
			wantMetadata: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			if tt.err == nil {
				assert.Empty(t, entries)
				return
			}

			assert.Len(t, entries, len(tt.wantMessages))
			assert.Len(t, tt.wantMetadata, len(tt.wantMessages))

			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message, "message at index %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata at index %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "no entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
		{
			name: "metadata sorted by key",
			entries: []logger.ErrorEntry{{
				Message:  "compiler worker out of sync",
				Metadata: map[string]any{"slot": 1, "arch": "arm64"},
			}},
			want: "Error: compiler worker out of sync\n       arch: arm64\n       slot: 1",
		},
		{
			name: "multiline compiler diagnostic as cause",
			entries: []logger.ErrorEntry{
				{Message: "module build failed", Metadata: map[string]any{"module": "app/a.rb"}},
				{Message: "app/a.rb:3: syntax error\n  def foo(\n         ^"},
			},
			want: "Error: module build failed\n" +
				"       module: app/a.rb\n\n" +
				"  Caused by:\n" +
				"    → app/a.rb:3: syntax error\n" +
				"        def foo(\n" +
				"               ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}

func TestCollectAndFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "module failure",
			err:  moduleFailure("app/a.rb", backendFailure()),
			want: "Error: module build failed\n" +
				"       module: app/a.rb\n\n" +
				"  Caused by:\n" +
				"    → native backend failed\n" +
				"      arch: x86_64\n" +
				"    → exit status 1",
		},
		{
			name: "several module failures",
			err: errors.Join(domain.ErrBuildExecutionFailed, errors.Join(
				moduleFailure("app/a.rb", backendFailure()),
				moduleFailure("app/b.rb", workerDesync()),
			)),
			want: "Error: build execution failed\n\n" +
				"  Caused by:\n" +
				"    → module build failed\n" +
				"      module: app/a.rb\n" +
				"    → native backend failed\n" +
				"      arch: x86_64\n" +
				"    → exit status 1\n" +
				"    → module build failed\n" +
				"      module: app/b.rb\n" +
				"    → compiler worker out of sync\n" +
				"      arch: arm64\n" +
				"      slot: 1\n" +
				"    → EOF",
		},
		{
			name: "dependency cycle",
			err:  zerr.With(zerr.Wrap(domain.ErrCycleDetected, "modules depend on each other"), "cycle", "app/a.rb -> app/b.rb -> app/a.rb"),
			want: "Error: modules depend on each other\n" +
				"       cycle: app/a.rb -> app/b.rb -> app/a.rb\n\n" +
				"  Caused by:\n" +
				"    → cycle detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.FormatErrorEntriesExported(logger.CollectErrorEntriesExported(tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}
