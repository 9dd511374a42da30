package ports

import "go.trai.ch/weld/internal/core/domain"

// ModuleOrderer resolves a project into the ordered list of modules to compile.
//
//go:generate mockgen -source=orderer.go -destination=mocks/mock_orderer.go -package=mocks
type ModuleOrderer interface {
	// OrderModules returns application modules in dependency order followed by spec modules.
	OrderModules(project *domain.Project) (domain.ModulePlan, error)
}
