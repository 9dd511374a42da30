package domain

import (
	"path/filepath"
	"runtime"
)

// StalenessMode selects how the staleness oracle decides whether to rebuild.
type StalenessMode string

const (
	// StalenessMtime compares modification times. It is the default.
	StalenessMtime StalenessMode = "mtime"
	// StalenessHash compares content hashes recorded by a previous build.
	StalenessHash StalenessMode = "hash"
)

// Valid reports whether the mode is recognised.
func (m StalenessMode) Valid() bool {
	return m == StalenessMtime || m == StalenessHash
}

// Toolchain describes the external binaries a build drives. It is opaque configuration:
// the core only passes these values through to spawned processes.
type Toolchain struct {
	// Compiler is the script compiler run as a persistent worker. Its timestamp invalidates objects.
	Compiler string
	// DataDir holds per-platform kernel files, <DataDir>/<platform>/kernel-<arch>.bc.
	DataDir string
	// ArchTool runs the compiler under a given architecture (usually /usr/bin/arch). Optional.
	ArchTool string
	CC       string
	CXX      string
	Lipo     string
	Nm       string
	// VersionMinFlag is passed verbatim to the backend, e.g. -miphoneos-version-min=12.0.
	VersionMinFlag string
	OptLevel       int
	// BridgeSupport lists auxiliary metadata files passed to the compiler as --uses-bs flags.
	BridgeSupport []string
}

// KernelPath returns the kernel file required for one platform and architecture.
func (t Toolchain) KernelPath(platform Platform, arch Arch) string {
	return filepath.Join(t.DataDir, string(platform), "kernel-"+string(arch)+".bc")
}

// BuildConfig holds the settings that shape one build.
type BuildConfig struct {
	Platform     Platform
	Archs        []Arch
	DefaultArchs []Arch
	// Slots is the number of concurrent job slots. Zero means one per CPU.
	Slots                int
	KeepTemps            bool
	DeterministicSymbols bool
	Staleness            StalenessMode
	// SymbolRoots maps path prefixes to replacement tokens for deterministic symbols.
	SymbolRoots map[string]string
	Toolchain   Toolchain
	// CommonBuildDir holds objects for modules outside the project when building the default archs.
	CommonBuildDir string
}

// EffectiveSlots returns the slot count to schedule with for n modules.
func (c BuildConfig) EffectiveSlots(n int) int {
	slots := c.Slots
	if slots <= 0 {
		slots = runtime.NumCPU()
	}
	if n > 0 && slots > n {
		slots = n
	}
	if slots < 1 {
		slots = 1
	}
	return slots
}

// UsesDefaultArchs reports whether the configured architectures are the platform defaults.
func (c BuildConfig) UsesDefaultArchs() bool {
	return len(c.DefaultArchs) > 0 && SameArchs(c.Archs, c.DefaultArchs)
}

// Project is a loaded weld.yaml.
type Project struct {
	Name string
	Root string
	// Files lists application modules relative to Root, in the order they were declared.
	Files []string
	// Dependencies maps a module to the modules it must load after.
	Dependencies map[string][]string
	// SpecFiles lists spec modules, appended after application modules.
	SpecFiles []string
	SpecMode  bool
	// CustomInitFuncs are extra C functions called before module entry points.
	CustomInitFuncs []string
	Config          BuildConfig
}

// Command is one external process invocation.
type Command struct {
	Args []string
	Env  map[string]string
	Dir  string
}
