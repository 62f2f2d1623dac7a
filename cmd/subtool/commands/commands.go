// SPDX-License-Identifier: MPL-2.0

// Package commands defines subtool's built-in commands and wires them into
// both registration styles: the static registry used when no commands
// directory exists, and the discovery catalog referenced by descriptor
// files.
package commands

import (
	"cmdkit/pkg/registry"
	"cmdkit/pkg/runner"
)

// Registry is the static registry of built-in commands.
var Registry = registry.New()

func init() {
	Registry.Register("greet", NewGreet)
	Registry.Register("export", NewExport)
	Registry.Register("shout", NewShout)

	// The same commands are reachable through discovery: a descriptor file
	// with `kind = "command"` and `factory = "greet"` exposes the single
	// command, one with `kind = "registry"` and
	// `registries = ["subtool-builtins"]` exposes the whole set.
	runner.RegisterCommand("greet", NewGreet)
	runner.RegisterCommand("export", NewExport)
	runner.RegisterCommand("shout", NewShout)
	runner.RegisterRegistry("subtool-builtins", Registry)
}
