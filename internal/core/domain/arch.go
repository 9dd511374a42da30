package domain

import "strings"

// Arch is a target CPU architecture name as understood by the native toolchain.
type Arch string

// String returns the architecture name.
func (a Arch) String() string {
	return string(a)
}

// ExecArch returns the host architecture the compiler worker runs under when targeting a.
// ARM targets are compiled by a worker running on the matching Intel word size.
func (a Arch) ExecArch() Arch {
	switch {
	case a == "arm64":
		return "x86_64"
	case strings.HasPrefix(string(a), "arm"):
		return "i386"
	default:
		return a
	}
}

// UniqueArchs drops repeated architectures, keeping the first occurrence of each.
func UniqueArchs(archs []Arch) []Arch {
	if archs == nil {
		return nil
	}
	seen := make(map[Arch]struct{}, len(archs))
	out := make([]Arch, 0, len(archs))
	for _, a := range archs {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Platform is the SDK platform a build targets.
type Platform string

const (
	// PlatformIPhoneOS targets iOS devices.
	PlatformIPhoneOS Platform = "iPhoneOS"
	// PlatformIPhoneSimulator targets the iOS simulator.
	PlatformIPhoneSimulator Platform = "iPhoneSimulator"
	// PlatformMacOSX targets macOS.
	PlatformMacOSX Platform = "MacOSX"
	// PlatformAppleTVOS targets tvOS devices.
	PlatformAppleTVOS Platform = "AppleTVOS"
	// PlatformAppleTVSimulator targets the tvOS simulator.
	PlatformAppleTVSimulator Platform = "AppleTVSimulator"
)

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// IntermediateExt returns the file extension of the worker's intermediate output.
// tvOS device builds carry bitcode, every other platform emits assembly.
func (p Platform) IntermediateExt() string {
	if p.EmbedsBitcode() {
		return "bc"
	}
	return "s"
}

// EmbedsBitcode reports whether native objects for this platform embed bitcode.
func (p Platform) EmbedsBitcode() bool {
	return p == PlatformAppleTVOS
}

// SameArchs reports whether two architecture lists are equal, order included.
func SameArchs(a, b []Arch) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
