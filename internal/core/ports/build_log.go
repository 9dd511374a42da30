package ports

import "go.trai.ch/weld/internal/core/domain"

// BuildLog records what a build did, grouped into numbered topics.
//
//go:generate mockgen -source=build_log.go -destination=mocks/mock_build_log.go -package=mocks
type BuildLog interface {
	// NextTopic returns a new topic identifier. It is safe for concurrent use.
	NextTopic() uint64

	// Write appends an entry. It is safe for concurrent use.
	Write(entry domain.LogEntry) error

	// Close flushes and releases the log.
	Close() error
}

// BuildLogOpener starts a fresh build log for each build.
type BuildLogOpener interface {
	// Open truncates or creates the log at path.
	Open(path string) (BuildLog, error)
}
