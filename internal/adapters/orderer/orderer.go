// Package orderer turns a loaded project into the ordered module plan a build compiles.
package orderer

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleOrderer = (*Orderer)(nil)

// Orderer implements ports.ModuleOrderer over the project's declared dependencies.
type Orderer struct{}

// NewOrderer creates a new Orderer.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// OrderModules returns application modules in dependency order followed by spec modules
// in declaration order. Spec modules are only included in spec mode.
func (o *Orderer) OrderModules(project *domain.Project) (domain.ModulePlan, error) {
	deps := make(map[string][]string, len(project.Dependencies))
	for file, on := range project.Dependencies {
		name := filepath.Clean(file)
		deps[name] = append(deps[name], cleanAll(on)...)
	}

	g := domain.NewModuleGraph()
	for _, file := range project.Files {
		name := filepath.Clean(file)
		if err := g.AddModule(name, deps[name]); err != nil {
			return domain.ModulePlan{}, err
		}
	}

	for name := range deps {
		if !g.Has(name) {
			err := zerr.Wrap(domain.ErrMissingDependency, "dependencies declared for a module that is not listed")
			return domain.ModulePlan{}, zerr.With(err, "module", name)
		}
	}

	if err := g.Validate(); err != nil {
		return domain.ModulePlan{}, err
	}

	layout := newLayout(project)
	var plan domain.ModulePlan
	for name := range g.Walk() {
		plan.Modules = append(plan.Modules, layout.module(name, domain.ModuleApp))
	}
	plan.AppCount = len(plan.Modules)
	plan.Dependencies = deps

	if project.SpecMode {
		seen := make(map[string]struct{}, len(project.SpecFiles))
		for _, file := range project.SpecFiles {
			name := filepath.Clean(file)
			_, dupSpec := seen[name]
			if dupSpec || g.Has(name) {
				err := zerr.Wrap(domain.ErrDuplicateModule, "spec module is listed more than once")
				return domain.ModulePlan{}, zerr.With(err, "module", name)
			}
			seen[name] = struct{}{}
			plan.Modules = append(plan.Modules, layout.module(name, domain.ModuleSpec))
		}
		plan.SpecCount = len(plan.Modules) - plan.AppCount
	}

	if len(plan.Modules) == 0 {
		return domain.ModulePlan{}, zerr.With(zerr.Wrap(domain.ErrNoModules, "project lists no modules"), "project", project.Name)
	}
	return plan, nil
}

func cleanAll(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Clean(p)
	}
	return out
}

// layout decides where each module's objects go and what its deterministic symbol derives from.
type layout struct {
	root      string
	objsDir   string
	commonDir string
	roots     []symbolRoot
}

type symbolRoot struct {
	prefix string
	token  string
}

func newLayout(project *domain.Project) layout {
	cfg := project.Config
	l := layout{
		root:    project.Root,
		objsDir: filepath.Join(project.Root, domain.ObjsBuildDir(cfg.Platform, cfg.Archs)),
	}
	if cfg.CommonBuildDir != "" && cfg.UsesDefaultArchs() {
		versioned := filepath.Base(domain.VersionedBuildDir(cfg.Platform, cfg.Archs))
		l.commonDir = filepath.Join(cfg.CommonBuildDir, versioned)
	}

	for prefix, token := range cfg.SymbolRoots {
		l.roots = append(l.roots, symbolRoot{prefix: filepath.Clean(prefix), token: token})
	}
	// Longest prefix wins; ties broken by name so the choice never depends on map order.
	slices.SortFunc(l.roots, func(a, b symbolRoot) int {
		if len(a.prefix) != len(b.prefix) {
			return len(b.prefix) - len(a.prefix)
		}
		return strings.Compare(a.prefix, b.prefix)
	})
	return l
}

func (l layout) module(listed string, kind domain.ModuleKind) domain.Module {
	abs := listed
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(l.root, listed)
	}

	buildDir := l.objsDir
	if kind == domain.ModuleApp && l.commonDir != "" && !within(l.root, abs) {
		buildDir = l.commonDir
	}

	return domain.Module{
		Path:      abs,
		RelPath:   listed,
		SymbolKey: l.symbolKey(listed),
		Kind:      kind,
		BuildDir:  buildDir,
	}
}

func (l layout) symbolKey(listed string) string {
	for _, r := range l.roots {
		if listed == r.prefix || strings.HasPrefix(listed, r.prefix+string(filepath.Separator)) {
			return r.token + strings.TrimPrefix(listed, r.prefix)
		}
	}
	return listed
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
