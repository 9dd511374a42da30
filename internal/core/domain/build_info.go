package domain

import "time"

// BuildInfo records the inputs of a module's last successful compilation.
// It backs the content-hash staleness mode.
type BuildInfo struct {
	ModulePath    string      `json:"module_path"`
	SourceHash    string      `json:"source_hash"`
	ToolchainHash string      `json:"toolchain_hash"`
	ObjectPath    string      `json:"object_path,omitzero"`
	Symbol        EntrySymbol `json:"symbol,omitzero"`
	Timestamp     time.Time   `json:"timestamp"`
}

// StalenessQuery is the input to the staleness oracle.
type StalenessQuery struct {
	Mode          StalenessMode
	Root          string
	SourcePath    string
	ObjectPath    string
	ToolchainPath string
}
