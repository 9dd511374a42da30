// Package config provides the configuration loader for weld.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment toggles read on every load. They override weld.yaml.
const (
	EnvKeepTemps            = "WELD_KEEP_TEMPS"
	EnvKeepTempsLegacy      = "keep_temps"
	EnvDeterministicSymbols = "WELD_DETERMINISTIC_SYMBOLS"
	EnvSlots                = "WELD_SLOTS"
	EnvStaleness            = "WELD_STALENESS"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// NewLoaderWithFS creates a Loader reading through the given filesystem.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load finds weld.yaml from cwd upwards and returns the validated project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var weldfile Weldfile
	if err := l.readAndUnmarshalYAML(configPath, &weldfile); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	project, err := l.buildProject(configPath, &weldfile)
	if err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	return project, nil
}

// DiscoverRoot walks up from cwd to find the directory containing weld.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "searched every parent directory"), "cwd", cwd)
}

func (l *Loader) buildProject(configPath string, wf *Weldfile) (*domain.Project, error) {
	root := resolveRoot(configPath, wf.Root)

	name := wf.Project
	if name == "" {
		name = filepath.Base(root)
	}

	files, err := l.expandFiles(root, wf.Files)
	if err != nil {
		return nil, err
	}
	specFiles, err := l.expandFiles(root, wf.SpecFiles)
	if err != nil {
		return nil, err
	}

	cfg := domain.BuildConfig{
		Platform:             domain.Platform(wf.Platform),
		Archs:                toArchs(wf.Archs),
		DefaultArchs:         toArchs(wf.DefaultArchs),
		Slots:                wf.Slots,
		KeepTemps:            wf.KeepTemps,
		DeterministicSymbols: wf.DeterministicSymbols,
		Staleness:            domain.StalenessMode(wf.Staleness),
		SymbolRoots:          resolveSymbolRoots(root, wf.SymbolRoots),
		Toolchain:            resolveToolchain(root, wf.Toolchain),
		CommonBuildDir:       resolvePath(root, wf.CommonBuildDir),
	}
	if cfg.CommonBuildDir == "" {
		cfg.CommonBuildDir = domain.DefaultCommonBuildDir()
	} else if len(cfg.DefaultArchs) == 0 {
		l.warn(fmt.Sprintf("'common_build_dir' in %s has no effect without 'default_archs'", domain.ConfigFileName))
	}

	applyEnvironment(&cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &domain.Project{
		Name:            name,
		Root:            root,
		Files:           files,
		Dependencies:    wf.Dependencies,
		SpecFiles:       specFiles,
		SpecMode:        wf.SpecMode,
		CustomInitFuncs: wf.CustomInitFuncs,
		Config:          cfg,
	}, nil
}

// Validate checks the settings a build cannot start without.
func Validate(cfg domain.BuildConfig) error {
	if cfg.Platform == "" {
		return zerr.Wrap(domain.ErrInvalidPlatform, "'platform' is empty")
	}
	if len(cfg.Archs) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoArchitectures, "'archs' is empty"), "platform", cfg.Platform.String())
	}
	if cfg.Slots < 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidSlotCount, "invalid 'slots'"), "slots", cfg.Slots)
	}
	if cfg.Staleness != "" && !cfg.Staleness.Valid() {
		return zerr.With(zerr.Wrap(domain.ErrInvalidStalenessMode, "invalid 'staleness'"), "staleness", string(cfg.Staleness))
	}
	return nil
}

// applyEnvironment lets environment toggles override the file. An unset or empty variable
// leaves the configured value alone.
func applyEnvironment(cfg *domain.BuildConfig) {
	env.Load()

	if v := env.StrAlt(EnvKeepTemps, EnvKeepTempsLegacy); v != "" {
		cfg.KeepTemps = env.AsBool(v)
	}
	if env.Has(EnvDeterministicSymbols) {
		cfg.DeterministicSymbols = env.Bool(EnvDeterministicSymbols)
	}
	cfg.Slots = env.Int(EnvSlots, cfg.Slots)
	cfg.Staleness = domain.StalenessMode(env.Str(EnvStaleness, string(cfg.Staleness)))
	if cfg.Staleness == "" {
		cfg.Staleness = domain.StalenessMtime
	}
}

// expandFiles resolves glob entries against the root. Plain entries are kept as listed,
// so their position in the list is preserved.
func (l *Loader) expandFiles(root string, entries []string) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !strings.ContainsAny(entry, "*?[") {
			files = append(files, entry)
			continue
		}

		pattern := entry
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := l.FS.Glob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "glob pattern failed"), "pattern", entry)
		}
		if len(matches) == 0 {
			l.warn(fmt.Sprintf("pattern %q matched no files", entry))
		}
		for _, m := range matches {
			if filepath.IsAbs(entry) {
				files = append(files, m)
				continue
			}
			rel, relErr := filepath.Rel(root, m)
			if relErr != nil {
				return nil, zerr.With(zerr.Wrap(relErr, "glob match outside root"), "match", m)
			}
			files = append(files, rel)
		}
	}
	return files, nil
}

func (l *Loader) warn(msg string) {
	if l.Logger != nil {
		l.Logger.Warn(msg)
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Weldfile) error {
	configFile, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

// resolvePath expands a leading ~ and anchors relative paths at base. Empty stays empty.
func resolvePath(base, path string) string {
	if path == "" {
		return ""
	}
	path = env.ExpandUser(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// resolveTool anchors tool paths that contain a separator; bare names are left for PATH lookup.
func resolveTool(root, tool string) string {
	if tool == "" || (!strings.ContainsRune(tool, filepath.Separator) && !strings.HasPrefix(tool, "~")) {
		return tool
	}
	return resolvePath(root, tool)
}

func resolveToolchain(root string, dto ToolchainDTO) domain.Toolchain {
	bridgeSupport := make([]string, len(dto.BridgeSupport))
	for i, bs := range dto.BridgeSupport {
		bridgeSupport[i] = resolvePath(root, bs)
	}
	if len(bridgeSupport) == 0 {
		bridgeSupport = nil
	}

	return domain.Toolchain{
		Compiler:       resolveTool(root, dto.Compiler),
		DataDir:        resolvePath(root, dto.DataDir),
		ArchTool:       resolveTool(root, dto.ArchTool),
		CC:             resolveTool(root, dto.CC),
		CXX:            resolveTool(root, dto.CXX),
		Lipo:           resolveTool(root, dto.Lipo),
		Nm:             resolveTool(root, dto.Nm),
		VersionMinFlag: dto.VersionMinFlag,
		OptLevel:       dto.OptLevel,
		BridgeSupport:  bridgeSupport,
	}
}

// resolveSymbolRoots keeps prefixes in the form module paths are listed in:
// absolute prefixes are cleaned, relative ones are kept relative to the root.
func resolveSymbolRoots(root string, roots map[string]string) map[string]string {
	if len(roots) == 0 {
		return nil
	}
	out := make(map[string]string, len(roots))
	for prefix, token := range roots {
		prefix = env.ExpandUser(prefix)
		if filepath.IsAbs(prefix) {
			prefix = filepath.Clean(prefix)
		} else if rel, err := filepath.Rel(root, filepath.Join(root, prefix)); err == nil {
			prefix = rel
		}
		out[prefix] = token
	}
	return out
}

func toArchs(names []string) []domain.Arch {
	if len(names) == 0 {
		return nil
	}
	archs := make([]domain.Arch, len(names))
	for i, n := range names {
		archs[i] = domain.Arch(n)
	}
	return domain.UniqueArchs(archs)
}
