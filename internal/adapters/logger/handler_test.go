package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/weld/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}), buf
}

func TestPrettyHandler_Golden(t *testing.T) {
	tests := []struct {
		name       string
		log        func(lg *slog.Logger)
		goldenName string
	}{
		{
			name:       "record attrs",
			log:        func(lg *slog.Logger) { lg.Info("spawned worker", "slot", 0, "arch", "arm64") },
			goldenName: "handler_attrs",
		},
		{
			name: "group attrs are flattened and quoted",
			log: func(lg *slog.Logger) {
				lg.Info("assembled object", slog.Group("module",
					slog.String("arch", "x86_64"),
					slog.String("path", "/src/with space.rb"),
				))
			},
			goldenName: "handler_group",
		},
		{
			name:       "warn prefix",
			log:        func(lg *slog.Logger) { lg.Warn("slot stopped", "slot", 2) },
			goldenName: "handler_warn",
		},
		{
			name:       "debug filtered",
			log:        func(lg *slog.Logger) { lg.Debug("hidden") },
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newTestHandler(t)
			tt.log(slog.New(h))

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	h, buf := newTestHandler(t)

	lg := slog.New(h.WithAttrs([]slog.Attr{slog.Int("slot", 3)}).WithGroup("job"))
	lg.Info("compiled", "arch", "armv7")

	assert.Equal(t, "compiled slot=3 job.arch=armv7\n", buf.String())
}

func TestPrettyHandler_WithGroup_EmptyName(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.Same(t, h, h.WithGroup(""))
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_ModulePrefix(t *testing.T) {
	h, buf := newTestHandler(t)

	lg := slog.New(h).With("module", "app/a.rb")
	lg.Warn("worker wrote to stderr", "slot", 1)
	lg.WithGroup("job").Info("queued", "module", "app/b.rb")

	assert.Equal(t,
		"! [app/a.rb] worker wrote to stderr slot=1\n"+
			"[app/a.rb] queued job.module=app/b.rb\n",
		buf.String())
}
