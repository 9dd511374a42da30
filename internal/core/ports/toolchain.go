package ports

import (
	"context"
	"io"

	"go.trai.ch/weld/internal/core/domain"
)

//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks

// Backend turns one architecture's intermediate file into a native object.
type Backend interface {
	// Assemble runs the backend for one job, streaming its output to out.
	Assemble(ctx context.Context, job domain.BackendJob, out io.Writer) error
}

// Merger combines per-architecture objects into a single multi-architecture object.
type Merger interface {
	Merge(ctx context.Context, archObjects []string, output string, out io.Writer) error
}

// Toolchain is the set of external tools bound to one build configuration.
type Toolchain interface {
	WorkerFactory
	Backend
	Merger
	SymbolTable

	// CompilerPath is the absolute path of the compiler binary the build runs.
	CompilerPath() string
}

// ToolchainProvider checks that the tools a project names exist and binds them.
type ToolchainProvider interface {
	// Prepare returns the project's toolchain. It fails with domain.ErrToolchainMissing
	// before any build work starts when a binary or kernel file cannot be found.
	Prepare(project *domain.Project) (Toolchain, error)
}
