// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"context"
	"fmt"
	"strings"
)

// LabelHandler is implemented by commands that process one positional label
// at a time. When a command satisfies it, Execute runs the label loop
// instead of Handle.
type LabelHandler interface {
	// HandleLabel performs the command's action for a single label and
	// returns its contribution to the overall output (possibly empty).
	HandleLabel(ctx context.Context, label string, opts *ParseResult) (string, error)
}

// LabelCommand is a command that accepts one or more string labels and runs
// HandleLabel once per label, in the order given. Embedding types override
// HandleLabel; per-label outputs are joined with newlines, and labels that
// produce nothing contribute nothing.
type LabelCommand struct {
	BaseCommand

	// Label is the noun used for the positional metavar and the default
	// missing-arguments message. Defaults to "label".
	Label string
}

// AddArguments declares the one-or-more labels positional. The default
// missing-arguments message is computed here, once per invocation, by
// substituting the label noun; a custom message is left untouched.
func (c *LabelCommand) AddArguments(s *Schema) {
	if c.Label == "" {
		c.Label = "label"
	}
	if c.MissingArgsMessage == "" {
		c.MissingArgsMessage = fmt.Sprintf("Enter at least one %s.", c.Label)
	}
	s.Positional(c.Label, true)
}

// HandleLabel must be shadowed by the embedding command type.
func (c *LabelCommand) HandleLabel(context.Context, string, *ParseResult) (string, error) {
	return "", fmt.Errorf("commands embedding LabelCommand must implement HandleLabel: %w", ErrNotImplemented)
}

// runLabels drives the label loop: labels are processed in order, non-empty
// results collected, and the whole joined with newline separators. If every
// label produced an empty result the overall output is empty, which the
// reporting layer treats as nothing to report.
func runLabels(ctx context.Context, lh LabelHandler, opts *ParseResult) (string, error) {
	var outputs []string
	for _, label := range opts.Args() {
		result, err := lh.HandleLabel(ctx, label, opts)
		if err != nil {
			return "", err
		}
		if result != "" {
			outputs = append(outputs, result)
		}
	}
	return strings.Join(outputs, "\n"), nil
}
