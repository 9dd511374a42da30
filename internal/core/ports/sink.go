package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

// ObjectSink hands a finished build to the link step.
//
//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks
type ObjectSink interface {
	// Publish writes the artifacts the link step consumes for the build result.
	Publish(ctx context.Context, project *domain.Project, result domain.BuildResult) error
}
