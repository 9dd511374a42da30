package domain

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// WeldDirName is the name of the internal project directory.
	WeldDirName = ".weld"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// BuildDirName is the name of the directory holding versioned build trees.
	BuildDirName = "build"

	// ObjsDirName is the name of the object directory inside a build tree.
	ObjsDirName = "objs"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "weld.yaml"

	// BuildLogFile is the name of the org-mode build log.
	BuildLogFile = "build.org"

	// InitFileName is the name of the generated entry-point file.
	InitFileName = "init.mm"

	// ManifestFileName is the name of the ordered object manifest handed to the linker.
	ManifestFileName = "objects.json"

	// CacheAppName is the directory name used below the user cache dir for shared objects.
	CacheAppName = "weld"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultWeldPath returns the default root directory for weld metadata.
func DefaultWeldPath() string {
	return WeldDirName
}

// DefaultStorePath returns the default path for the build info store.
// It joins .weld and store.
func DefaultStorePath() string {
	return filepath.Join(WeldDirName, StoreDirName)
}

// DefaultBuildPath returns the directory holding all versioned build trees.
// It joins .weld and build.
func DefaultBuildPath() string {
	return filepath.Join(WeldDirName, BuildDirName)
}

// DefaultBuildLogPath returns the default path for the build log.
func DefaultBuildLogPath() string {
	return filepath.Join(WeldDirName, BuildLogFile)
}

// VersionedBuildDir returns the build tree for one platform and architecture set,
// e.g. .weld/build/iPhoneOS-arm64+x86_64.
func VersionedBuildDir(platform Platform, archs []Arch) string {
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = string(a)
	}
	return filepath.Join(DefaultBuildPath(), string(platform)+"-"+strings.Join(names, "+"))
}

// ObjsBuildDir returns the project-local object directory for a platform and architecture set.
func ObjsBuildDir(platform Platform, archs []Arch) string {
	return filepath.Join(VersionedBuildDir(platform, archs), ObjsDirName)
}

// DefaultCommonBuildDir returns the shared object cache used for modules outside the project.
// XDG_CACHE_HOME wins over the platform cache directory.
func DefaultCommonBuildDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, CacheAppName, BuildDirName)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, CacheAppName, BuildDirName)
	}
	return filepath.Join(os.TempDir(), CacheAppName, BuildDirName)
}
