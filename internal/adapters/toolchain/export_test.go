package toolchain

import (
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
)

// WorkerCommand exposes the worker spawn command for tests.
func WorkerCommand(tc ports.Toolchain, arch domain.Arch) domain.Command {
	return tc.(*bound).workerCommand(arch)
}
