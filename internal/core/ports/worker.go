package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

// Worker is a persistent compiler process bound to one slot and architecture.
// Calls on a single worker are never concurrent.
type Worker interface {
	// Compile sends one job and blocks until the worker acknowledges it.
	Compile(ctx context.Context, job domain.CompileJob) error

	// Quit asks the worker to exit. It never forces termination.
	Quit() error
}

// WorkerFactory starts compiler workers.
type WorkerFactory interface {
	// Spawn starts a worker for the given slot and architecture.
	Spawn(ctx context.Context, key domain.WorkerKey) (Worker, error)
}
