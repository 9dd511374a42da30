package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

//go:generate mockgen -source=symbols.go -destination=mocks/mock_symbols.go -package=mocks

// SymbolAllocator names the entry point of a module about to be compiled.
type SymbolAllocator interface {
	// Allocate returns an entry symbol for the module. Deterministic symbols are derived
	// from the module path; otherwise they are random.
	Allocate(module domain.Module, deterministic bool) (domain.EntrySymbol, error)
}

// SymbolTable recovers the entry symbol of an object that was not rebuilt.
type SymbolTable interface {
	// EntrySymbol lists the object's symbols and returns its single entry point.
	EntrySymbol(ctx context.Context, objectPath string) (domain.EntrySymbol, error)
}
