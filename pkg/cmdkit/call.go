// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"context"
	"fmt"
)

// Call invokes a command programmatically, bypassing process-argument
// parsing entirely. args become the positional arguments and options the
// named option values; names are validated against the command's schema
// plus its stealth options, and unset schema options receive their declared
// defaults (so Execute never sees missing base keys). Nothing on this path
// terminates the process: a CommandError from the command propagates to the
// caller raw, as does cancellation.
//
// This is the mechanism by which one command invokes another, or a test
// harness drives a command without a process boundary.
func Call(ctx context.Context, cmd Command, args []string, options map[string]any) (string, error) {
	base := cmd.Base()
	base.calledFromProcess = false

	schema := CreateSchema(cmd, "", "")

	valid := schema.dests()
	for _, name := range base.StealthOptions {
		valid[destKey(name)] = true
	}
	for name := range options {
		if !valid[destKey(name)] {
			return "", fmt.Errorf("unknown option %q passed to Call", name)
		}
	}

	values := schema.defaults()
	for name, value := range options {
		values[destKey(name)] = value
	}

	return Execute(ctx, cmd, &ParseResult{values: values, args: args})
}
