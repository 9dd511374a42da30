package domain

import "regexp"

// SymbolNamespace prefixes every generated entry symbol.
const SymbolNamespace = "MREP_"

var entrySymbolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EntrySymbol is the exported name of a module's generated entry function.
type EntrySymbol string

// String returns the symbol name.
func (s EntrySymbol) String() string {
	return string(s)
}

// Valid reports whether the symbol is a C identifier.
func (s EntrySymbol) Valid() bool {
	return entrySymbolPattern.MatchString(string(s))
}
