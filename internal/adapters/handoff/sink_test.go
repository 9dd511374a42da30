package handoff_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/handoff"
	"go.trai.ch/weld/internal/core/domain"
)

func object(name string, sym domain.EntrySymbol, kind domain.ModuleKind) domain.CompiledObject {
	m := domain.Module{Path: "/src/" + name, RelPath: name, Kind: kind, BuildDir: "/objs"}
	return domain.CompiledObject{Module: m, ObjectPath: m.ObjectPath(), Symbol: sym}
}

func TestRenderInit_Golden(t *testing.T) {
	app := []domain.CompiledObject{
		object("app/model.rb", "MREP_app_model_rb", domain.ModuleApp),
		object("app/app_delegate.rb", "MREP_app_app_delegate_rb", domain.ModuleApp),
	}

	text, err := handoff.RenderInit([]string{"Init_Extension"}, app)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "init_mm", text)
}

func TestRenderInit_Empty(t *testing.T) {
	text, err := handoff.RenderInit(nil, nil)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "init_mm_empty", text)
}

func newProject(t *testing.T) *domain.Project {
	t.Helper()
	return &domain.Project{
		Name:            "Demo",
		Root:            t.TempDir(),
		CustomInitFuncs: []string{"Init_Extension"},
		Config: domain.BuildConfig{
			Platform: domain.PlatformIPhoneSimulator,
			Archs:    []domain.Arch{"x86_64"},
		},
	}
}

func TestSink_Publish(t *testing.T) {
	project := newProject(t)
	app := object("app/main.rb", "MREP_app_main_rb", domain.ModuleApp)
	spec := object("spec/main_spec.rb", "MREP_spec_main_spec_rb", domain.ModuleSpec)
	result := domain.BuildResult{
		Objects: []domain.CompiledObject{app, spec},
		App:     []domain.CompiledObject{app},
		Spec:    []domain.CompiledObject{spec},
	}

	require.NoError(t, handoff.NewSink().Publish(t.Context(), project, result))

	dir := filepath.Join(project.Root, ".weld", "build", "iPhoneSimulator-x86_64", "objs")
	data, err := os.ReadFile(filepath.Join(dir, domain.ManifestFileName))
	require.NoError(t, err)

	var manifest handoff.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, handoff.Manifest{
		Project:         "Demo",
		Platform:        "iPhoneSimulator",
		Archs:           []domain.Arch{"x86_64"},
		App:             []handoff.ObjectEntry{{Module: "app/main.rb", Object: app.ObjectPath, Symbol: "MREP_app_main_rb"}},
		Spec:            []handoff.ObjectEntry{{Module: "spec/main_spec.rb", Object: spec.ObjectPath, Symbol: "MREP_spec_main_spec_rb"}},
		CustomInitFuncs: []string{"Init_Extension"},
		InitFile:        filepath.Join(dir, domain.InitFileName),
	}, manifest)

	initText, err := os.ReadFile(filepath.Join(dir, domain.InitFileName))
	require.NoError(t, err)
	assert.Contains(t, string(initText), "MREP_app_main_rb(self, 0);")
	assert.NotContains(t, string(initText), "MREP_spec_main_spec_rb", "spec entry points are not called at launch")
}

func TestSink_Publish_UnchangedFilesKeepTimestamps(t *testing.T) {
	project := newProject(t)
	app := object("app/main.rb", "MREP_app_main_rb", domain.ModuleApp)
	result := domain.BuildResult{Objects: []domain.CompiledObject{app}, App: []domain.CompiledObject{app}}

	sink := handoff.NewSink()
	require.NoError(t, sink.Publish(t.Context(), project, result))

	dir := filepath.Join(project.Root, domain.ObjsBuildDir(project.Config.Platform, project.Config.Archs))
	initPath := filepath.Join(dir, domain.InitFileName)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(initPath, past, past))

	require.NoError(t, sink.Publish(t.Context(), project, result))
	info, err := os.Stat(initPath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "unchanged init file was rewritten")

	other := object("app/other.rb", "MREP_app_other_rb", domain.ModuleApp)
	result.App = append(result.App, other)
	require.NoError(t, sink.Publish(t.Context(), project, result))
	info, err = os.Stat(initPath)
	require.NoError(t, err)
	assert.False(t, info.ModTime().Equal(past), "changed init file was not rewritten")
}

func TestSink_Publish_TouchesObjectDirWhenBuilt(t *testing.T) {
	project := newProject(t)
	app := object("app/main.rb", "MREP_app_main_rb", domain.ModuleApp)
	dir := filepath.Join(project.Root, domain.ObjsBuildDir(project.Config.Platform, project.Config.Archs))

	stamp := time.Date(2031, 5, 4, 3, 2, 1, 0, time.UTC)
	sink := handoff.NewSink()
	sink.SetNow(func() time.Time { return stamp })

	result := domain.BuildResult{App: []domain.CompiledObject{app}}
	require.NoError(t, sink.Publish(t.Context(), project, result))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.False(t, info.ModTime().Equal(stamp), "nothing rebuilt, directory must not be touched")

	result.AnyBuilt = true
	require.NoError(t, sink.Publish(t.Context(), project, result))
	info, err = os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestSink_Publish_ObjectDirError(t *testing.T) {
	project := newProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(project.Root, ".weld"), nil, domain.FilePerm))

	err := handoff.NewSink().Publish(t.Context(), project, domain.BuildResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrObjectDirCreateFailed.Error())
}
