// Package handoff writes the artifacts the external link step reads: the ordered
// object manifest and the generated init file that calls every entry symbol.
package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// InitFunc is the C function the generated init file defines.
const InitFunc = "WeldInit"

var _ ports.ObjectSink = (*Sink)(nil)

// Sink implements ports.ObjectSink by writing objects.json and init.mm into the
// project's object directory.
type Sink struct {
	now func() time.Time
}

// NewSink creates a new Sink.
func NewSink() *Sink {
	return &Sink{now: time.Now}
}

// Manifest is the content of objects.json.
type Manifest struct {
	Project         string        `json:"project"`
	Platform        string        `json:"platform"`
	Archs           []domain.Arch `json:"archs"`
	App             []ObjectEntry `json:"app"`
	Spec            []ObjectEntry `json:"spec,omitempty"`
	CustomInitFuncs []string      `json:"custom_init_funcs,omitempty"`
	InitFile        string        `json:"init_file"`
}

// ObjectEntry is one compiled module in link order.
type ObjectEntry struct {
	Module string             `json:"module"`
	Object string             `json:"object"`
	Symbol domain.EntrySymbol `json:"symbol"`
}

// Publish writes the manifest and init file. Each file is only rewritten when its
// content changes, so an unchanged build leaves their timestamps alone. The object
// directory is touched whenever a module was rebuilt.
func (s *Sink) Publish(_ context.Context, project *domain.Project, result domain.BuildResult) error {
	cfg := project.Config
	dir := filepath.Join(project.Root, domain.ObjsBuildDir(cfg.Platform, cfg.Archs))
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrObjectDirCreateFailed.Error()), "path", dir)
	}

	initPath := filepath.Join(dir, domain.InitFileName)
	initText, err := RenderInit(project.CustomInitFuncs, result.App)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInitFileWriteFailed.Error()), "path", initPath)
	}
	if err := writeIfChanged(initPath, initText); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInitFileWriteFailed.Error()), "path", initPath)
	}

	manifestPath := filepath.Join(dir, domain.ManifestFileName)
	manifest, err := json.MarshalIndent(Manifest{
		Project:         project.Name,
		Platform:        cfg.Platform.String(),
		Archs:           cfg.Archs,
		App:             entries(result.App),
		Spec:            entries(result.Spec),
		CustomInitFuncs: project.CustomInitFuncs,
		InitFile:        initPath,
	}, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", manifestPath)
	}
	if err := writeIfChanged(manifestPath, append(manifest, '\n')); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", manifestPath)
	}

	if result.AnyBuilt {
		now := s.now()
		if err := os.Chtimes(dir, now, now); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to touch object directory"), "path", dir)
		}
	}
	return nil
}

func entries(objs []domain.CompiledObject) []ObjectEntry {
	if len(objs) == 0 {
		return nil
	}
	out := make([]ObjectEntry, len(objs))
	for i, o := range objs {
		out[i] = ObjectEntry{Module: o.Module.Name(), Object: o.ObjectPath, Symbol: o.Symbol}
	}
	return out
}

var initTemplate = template.Must(template.New(domain.InitFileName).Parse(`// Generated by weld. Do not edit.
#import <Foundation/Foundation.h>

extern "C" {
    void *rb_vm_top_self(void);
{{- range .InitFuncs}}
    void {{.}}(void);
{{- end}}
{{- range .Objects}}
    void {{.Symbol}}(void *, void *);
{{- end}}
}

extern "C"
void
` + InitFunc + `(void)
{
    static bool initialized = false;
    if (!initialized) {
        void *self = rb_vm_top_self();
{{- range .InitFuncs}}
        {{.}}();
{{- end}}
{{- range .Objects}}
        {{.Symbol}}(self, 0);
{{- end}}
        initialized = true;
    }
}
`))

// RenderInit generates the init file. Custom init functions run first, then every
// application module's entry symbol in link order.
func RenderInit(initFuncs []string, app []domain.CompiledObject) ([]byte, error) {
	var buf bytes.Buffer
	err := initTemplate.Execute(&buf, struct {
		InitFuncs []string
		Objects   []domain.CompiledObject
	}{initFuncs, app})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeIfChanged(path string, data []byte) error {
	current, err := os.ReadFile(path) //nolint:gosec // path is below the object directory
	if err == nil && bytes.Equal(current, data) {
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
