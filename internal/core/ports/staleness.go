package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

// StalenessOracle decides whether a module's object must be rebuilt.
//
//go:generate mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks
type StalenessOracle interface {
	// NeedsRebuild reports whether the object described by the query is stale.
	// A missing object, source, or compiler is never an error: it reads as stale.
	NeedsRebuild(ctx context.Context, query domain.StalenessQuery) (bool, error)

	// Record notes a successful compilation so later queries can compare against it.
	Record(ctx context.Context, query domain.StalenessQuery, symbol domain.EntrySymbol) error
}
