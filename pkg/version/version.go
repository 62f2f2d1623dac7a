// SPDX-License-Identifier: MPL-2.0

// Package version exposes the framework build version and resolves module
// versions from embedded build info.
package version

import (
	"fmt"
	"runtime/debug"
)

// Fallback is the placeholder returned when no version can be resolved.
const Fallback = "unknown"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// String returns a formatted version string for display.
func String() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Resolve returns the version of the given module path as recorded in the
// running binary's build info. An empty path resolves the main module.
// Lookup failures are silent: the Fallback placeholder is returned instead.
func Resolve(modulePath string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Fallback
	}

	if modulePath == "" || modulePath == info.Main.Path {
		if info.Main.Version == "" || info.Main.Version == "(devel)" {
			return Fallback
		}
		return info.Main.Version
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}

	return Fallback
}
