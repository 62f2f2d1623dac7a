// SPDX-License-Identifier: MPL-2.0

package config

import "sync"

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// Reset clears test overrides and the cached Config. Call from test cleanup
// to restore defaults.
func Reset() {
	configDirOverride = ""
	loadOnce = sync.Once{}
	cached = nil
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
	loadOnce = sync.Once{}
	cached = nil
}
