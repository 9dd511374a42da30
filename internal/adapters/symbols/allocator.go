// Package symbols allocates module entry symbols.
package symbols

import (
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SymbolAllocator = (*Allocator)(nil)

// Allocator implements ports.SymbolAllocator.
type Allocator struct {
	newID func() string
}

// NewAllocator creates an Allocator whose random symbols come from UUIDv4.
func NewAllocator() *Allocator {
	return &Allocator{newID: uuid.NewString}
}

// Allocate returns the entry symbol for a module.
//
// Deterministic symbols are derived from the module's symbol source so the same path
// always yields the same symbol. Random symbols differ on every call.
func (a *Allocator) Allocate(module domain.Module, deterministic bool) (domain.EntrySymbol, error) {
	var sym domain.EntrySymbol
	if deterministic {
		sym = Deterministic(module.SymbolSource())
	} else {
		sym = domain.EntrySymbol(domain.SymbolNamespace + strings.ReplaceAll(a.newID(), "-", ""))
	}

	if sym == domain.SymbolNamespace || !sym.Valid() {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidEntrySymbol, "cannot allocate entry symbol"), "symbol", sym.String())
		return "", zerr.With(err, "module", module.Name())
	}
	return sym, nil
}

// Deterministic maps a path to its stable entry symbol. Separators, dots, spaces and
// dashes become underscores, as does any other character not valid in a C identifier.
// Leading underscores are dropped before the namespace is prefixed.
func Deterministic(path string) domain.EntrySymbol {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, path)

	return domain.EntrySymbol(domain.SymbolNamespace + strings.TrimLeft(name, "_"))
}
