// SPDX-License-Identifier: MPL-2.0

// subtool is a small host program demonstrating both dispatch styles: a
// statically registered command set, and filesystem discovery over a
// commands directory of descriptor files when one is present.
package main

import (
	"fmt"
	"os"

	"cmdkit/cmd/subtool/commands"
	"cmdkit/internal/config"
	"cmdkit/pkg/runner"
)

func main() {
	cfg := config.Get()

	if info, err := os.Stat(cfg.CommandsDir); err == nil && info.IsDir() {
		fatalOn(runner.New(cfg.CommandsDir).Run(os.Args))
		return
	}
	fatalOn(commands.Registry.Run(os.Args))
}

// fatalOn handles errors the framework deliberately does not: a CommandError
// escaping via --traceback, or an unclassified crash from a command.
func fatalOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
