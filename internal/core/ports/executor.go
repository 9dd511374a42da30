// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/weld/internal/core/domain"
)

// Executor defines the interface for running one-shot external tools.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes the command, streaming its output to stdout and stderr.
	// It returns an error carrying the exit code if the command fails.
	Run(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error

	// Output executes the command and returns its standard output.
	Output(ctx context.Context, cmd domain.Command) ([]byte, error)
}
