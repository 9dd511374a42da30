package domain

import "path/filepath"

// ModuleKind distinguishes application modules from spec modules.
type ModuleKind uint8

const (
	// ModuleApp is an application module, linked into the final executable.
	ModuleApp ModuleKind = iota
	// ModuleSpec is a spec/test module, appended after every application module.
	ModuleSpec
)

// String returns the kind name.
func (k ModuleKind) String() string {
	if k == ModuleSpec {
		return "spec"
	}
	return "app"
}

// Module is one source file compiled to one object. It is immutable for the duration of a build.
type Module struct {
	// Path is the absolute source path.
	Path string
	// RelPath is the path as listed in the project, used for display.
	RelPath string
	// SymbolKey is the listed path with symbol roots substituted. Deterministic entry
	// symbols are derived from it.
	SymbolKey string
	// Kind tells application modules from spec modules.
	Kind ModuleKind
	// BuildDir is the directory the module's objects are written below.
	BuildDir string
}

// Name returns the display name of the module.
func (m Module) Name() string {
	if m.RelPath != "" {
		return m.RelPath
	}
	return m.Path
}

// SymbolSource returns the text deterministic entry symbols are derived from.
func (m Module) SymbolSource() string {
	if m.SymbolKey != "" {
		return m.SymbolKey
	}
	return m.Name()
}

// ObjectPath returns the path of the module's fat object.
// Objects are keyed by the absolute source path below the build directory.
func (m Module) ObjectPath() string {
	return filepath.Join(m.BuildDir, m.Path+".o")
}

// IntermediatePath returns the worker output path for one architecture.
func (m Module) IntermediatePath(arch Arch, ext string) string {
	return filepath.Join(m.BuildDir, m.Path+"."+string(arch)+"."+ext)
}

// ArchObjectPath returns the native single-architecture object path.
func (m Module) ArchObjectPath(arch Arch) string {
	return filepath.Join(m.BuildDir, m.Path+"."+string(arch)+".o")
}

// ModulePlan is the ordered module list handed to the scheduler together with
// the counts used later to split the results.
type ModulePlan struct {
	Modules   []Module
	AppCount  int
	SpecCount int
	// Dependencies maps a module name to the names it loads after. Used for display.
	Dependencies map[string][]string
}

// Names returns the display names of all planned modules in order.
func (p ModulePlan) Names() []string {
	names := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		names[i] = m.Name()
	}
	return names
}

// WorkerKey identifies one persistent compiler worker.
type WorkerKey struct {
	Slot int
	Arch Arch
}

// CompileJob is one module and architecture pair submitted to a worker.
type CompileJob struct {
	IntermediatePath string
	Symbol           EntrySymbol
	SourcePath       string
}

// BackendJob is one native backend invocation turning an intermediate file into an object.
type BackendJob struct {
	Arch             Arch
	IntermediatePath string
	ObjectPath       string
}
