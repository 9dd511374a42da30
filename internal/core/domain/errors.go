package domain

import "go.trai.ch/zerr"

var (
	// ErrToolchainMissing is returned when a required toolchain binary or kernel file cannot be found.
	ErrToolchainMissing = zerr.New("toolchain not found")

	// ErrCompilationFailure is returned when a worker acknowledges a job but no intermediate file exists.
	ErrCompilationFailure = zerr.New("module failed to compile")

	// ErrBackendFailure is returned when the native per-architecture backend exits non-zero.
	ErrBackendFailure = zerr.New("native backend failed")

	// ErrMergeFailure is returned when the universal binary cannot be created.
	ErrMergeFailure = zerr.New("failed to create universal object")

	// ErrSymbolRecoveryMissing is returned when a cached object exports no entry symbol.
	ErrSymbolRecoveryMissing = zerr.New("no entry symbol found in object")

	// ErrSymbolRecoveryAmbiguous is returned when a cached object exports more than one entry symbol.
	ErrSymbolRecoveryAmbiguous = zerr.New("multiple entry symbols found in object")

	// ErrWorkerDesync is returned when a compiler worker breaks the request/acknowledge protocol.
	ErrWorkerDesync = zerr.New("compiler worker out of sync")

	// ErrWorkerSpawnFailed is returned when a compiler worker process cannot be started.
	ErrWorkerSpawnFailed = zerr.New("failed to spawn compiler worker")

	// ErrWorkerTerminated is returned when a job is submitted to a worker that has been told to quit.
	ErrWorkerTerminated = zerr.New("compiler worker already terminated")

	// ErrDuplicateEntrySymbol is returned when two modules of one build share an entry symbol.
	ErrDuplicateEntrySymbol = zerr.New("duplicate entry symbol")

	// ErrInvalidEntrySymbol is returned when a symbol is not a valid C identifier.
	ErrInvalidEntrySymbol = zerr.New("invalid entry symbol")

	// ErrModuleBuildFailed wraps any failure while processing a single module.
	ErrModuleBuildFailed = zerr.New("module build failed")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrNoModules is returned when a build is requested with an empty module list.
	ErrNoModules = zerr.New("no modules to build")

	// ErrDuplicateModule is returned when a module path is listed more than once.
	ErrDuplicateModule = zerr.New("module listed more than once")

	// ErrMissingDependency is returned when a module depends on a file that is not part of the build.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when module dependencies form a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrNoArchitectures is returned when no target architecture is configured.
	ErrNoArchitectures = zerr.New("no target architectures configured")

	// ErrInvalidSlotCount is returned when the job slot count is negative.
	ErrInvalidSlotCount = zerr.New("job slot count must not be negative")

	// ErrInvalidStalenessMode is returned when the staleness mode is not recognised.
	ErrInvalidStalenessMode = zerr.New("invalid staleness mode, expected 'mtime' or 'hash'")

	// ErrInvalidPlatform is returned when no platform is configured.
	ErrInvalidPlatform = zerr.New("platform must be set")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find weld.yaml")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrObjectDirCreateFailed is returned when an object directory cannot be created.
	ErrObjectDirCreateFailed = zerr.New("failed to create object directory")

	// ErrInitFileWriteFailed is returned when the generated init file cannot be written.
	ErrInitFileWriteFailed = zerr.New("failed to write init file")

	// ErrManifestWriteFailed is returned when the object manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write object manifest")

	// ErrInvalidOutputMode is returned when the requested output mode is not recognised.
	ErrInvalidOutputMode = zerr.New("invalid output mode, expected 'auto', 'tui', 'linear' or 'ci'")

	// ErrBuildLogWriteFailed is returned when the build log cannot be opened or written.
	ErrBuildLogWriteFailed = zerr.New("failed to write build log")
)
