// Package staleness decides whether a module's object must be rebuilt.
package staleness

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StalenessOracle = (*Oracle)(nil)

// Oracle implements ports.StalenessOracle.
//
// In mtime mode an object is stale when it is missing or older than its source or the
// compiler. Timestamps are trusted as-is: clock skew or copies that preserve mtimes can
// keep a stale object. In hash mode the object is stale when it is missing or when the
// recorded source or compiler hash differs from the current one.
type Oracle struct {
	store  ports.BuildInfoStore
	hasher ports.Hasher
	now    func() time.Time
}

// NewOracle creates a new Oracle. store and hasher are only used in hash mode.
func NewOracle(store ports.BuildInfoStore, hasher ports.Hasher) *Oracle {
	return &Oracle{store: store, hasher: hasher, now: time.Now}
}

// NeedsRebuild reports whether the object described by the query is stale.
func (o *Oracle) NeedsRebuild(_ context.Context, q domain.StalenessQuery) (bool, error) {
	switch q.Mode {
	case domain.StalenessMtime, "":
		return o.mtimeStale(q)
	case domain.StalenessHash:
		return o.hashStale(q)
	default:
		return false, zerr.With(zerr.Wrap(domain.ErrInvalidStalenessMode, "cannot decide staleness"), "mode", string(q.Mode))
	}
}

// Record stores the hashes of a successful compilation. It does nothing in mtime mode.
func (o *Oracle) Record(_ context.Context, q domain.StalenessQuery, symbol domain.EntrySymbol) error {
	if q.Mode != domain.StalenessHash {
		return nil
	}

	sourceHash, err := o.hasher.HashFile(q.SourcePath)
	if err != nil {
		return err
	}
	toolchainHash, err := o.toolchainHash(q.ToolchainPath)
	if err != nil {
		return err
	}

	return o.store.Put(q.Root, domain.BuildInfo{
		ModulePath:    q.SourcePath,
		SourceHash:    sourceHash,
		ToolchainHash: toolchainHash,
		ObjectPath:    q.ObjectPath,
		Symbol:        symbol,
		Timestamp:     o.now().UTC(),
	})
}

func (o *Oracle) mtimeStale(q domain.StalenessQuery) (bool, error) {
	object, err := stat(q.ObjectPath)
	if err != nil {
		return false, err
	}
	if object == nil {
		return true, nil
	}

	for _, input := range []string{q.SourcePath, q.ToolchainPath} {
		if input == "" {
			continue
		}
		info, err := stat(input)
		if err != nil {
			return false, err
		}
		if info == nil || info.ModTime().After(object.ModTime()) {
			return true, nil
		}
	}

	return false, nil
}

func (o *Oracle) hashStale(q domain.StalenessQuery) (bool, error) {
	object, err := stat(q.ObjectPath)
	if err != nil {
		return false, err
	}
	if object == nil {
		return true, nil
	}

	record, err := o.store.Get(q.Root, q.SourcePath)
	if err != nil {
		return false, err
	}
	if record == nil || record.ObjectPath != q.ObjectPath {
		return true, nil
	}

	sourceHash, err := o.hasher.HashFile(q.SourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if sourceHash != record.SourceHash {
		return true, nil
	}

	toolchainHash, err := o.toolchainHash(q.ToolchainPath)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return toolchainHash != record.ToolchainHash, nil
}

func (o *Oracle) toolchainHash(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return o.hasher.HashFile(path)
}

// stat returns nil info without error when the path does not exist.
func stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return info, nil
}
