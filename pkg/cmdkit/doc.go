// SPDX-License-Identifier: MPL-2.0

// Package cmdkit implements the command execution contract: a declarative
// option schema backed by pflag, a dual-mode parser whose failure behavior
// depends on whether the command was invoked from a live process or
// programmatically, and the BaseCommand / LabelCommand building blocks that
// turn parsed options into a reported outcome.
//
// Commands embed BaseCommand and implement Handle (or HandleLabel for label
// commands). The CLI entry point is RunFromArgv; the programmatic entry
// point is Call. Exactly one boundary (RunFromArgv) reports errors and
// terminates the process; every other path propagates them unchanged.
package cmdkit
