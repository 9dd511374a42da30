package config

// Weldfile represents the structure of the weld.yaml configuration file.
type Weldfile struct {
	Version              string              `yaml:"version"`
	Project              string              `yaml:"project"`
	Root                 string              `yaml:"root"`
	Platform             string              `yaml:"platform"`
	Archs                []string            `yaml:"archs"`
	DefaultArchs         []string            `yaml:"default_archs"`
	Slots                int                 `yaml:"slots"`
	Staleness            string              `yaml:"staleness"`
	KeepTemps            bool                `yaml:"keep_temps"`
	DeterministicSymbols bool                `yaml:"deterministic_symbols"`
	Toolchain            ToolchainDTO        `yaml:"toolchain"`
	SymbolRoots          map[string]string   `yaml:"symbol_roots"`
	Files                []string            `yaml:"files"`
	Dependencies         map[string][]string `yaml:"dependencies"`
	SpecFiles            []string            `yaml:"spec_files"`
	SpecMode             bool                `yaml:"spec_mode"`
	CustomInitFuncs      []string            `yaml:"custom_init_funcs"`
	CommonBuildDir       string              `yaml:"common_build_dir"`
}

// ToolchainDTO represents the toolchain section of the configuration.
type ToolchainDTO struct {
	Compiler       string   `yaml:"compiler"`
	DataDir        string   `yaml:"data_dir"`
	ArchTool       string   `yaml:"arch_tool"`
	CC             string   `yaml:"cc"`
	CXX            string   `yaml:"cxx"`
	Lipo           string   `yaml:"lipo"`
	Nm             string   `yaml:"nm"`
	VersionMinFlag string   `yaml:"version_min_flag"`
	OptLevel       int      `yaml:"opt_level"`
	BridgeSupport  []string `yaml:"bridgesupport"`
}
