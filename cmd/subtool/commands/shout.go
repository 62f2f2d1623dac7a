// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"strings"

	"cmdkit/pkg/cmdkit"
)

// Shout uppercases each word given on the command line, one per label.
type Shout struct {
	cmdkit.LabelCommand
}

// NewShout constructs the shout command.
func NewShout() cmdkit.Command {
	return &Shout{
		LabelCommand: cmdkit.LabelCommand{
			BaseCommand: cmdkit.BaseCommand{Help: "Shout each given word"},
			Label:       "word",
		},
	}
}

// HandleLabel implements the per-label action.
func (c *Shout) HandleLabel(_ context.Context, label string, _ *cmdkit.ParseResult) (string, error) {
	return strings.ToUpper(label) + "!", nil
}
