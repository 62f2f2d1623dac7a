// SPDX-License-Identifier: MPL-2.0

// Package config handles framework configuration using Viper.
//
// Settings are resolved from three layers, lowest priority first: built-in
// defaults, an optional config.toml under the platform config directory
// (XDG on Linux, ~/Library/Application Support on macOS, %APPDATA% on
// Windows), and CMDKIT_* environment variables. A missing or unreadable
// config file is not an error; the remaining layers still apply.
package config
