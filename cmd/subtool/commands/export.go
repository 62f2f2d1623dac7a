// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"

	"cmdkit/pkg/cmdkit"
)

// Export dumps records as SQL. Its output is reported inside BEGIN;/COMMIT;
// markers so it can be piped straight into a database shell.
type Export struct {
	cmdkit.BaseCommand
}

// NewExport constructs the export command.
func NewExport() cmdkit.Command {
	return &Export{
		BaseCommand: cmdkit.BaseCommand{
			Help:              "Export data",
			OutputTransaction: true,
		},
	}
}

// AddArguments declares the export options.
func (c *Export) AddArguments(s *cmdkit.Schema) {
	s.String("format", "", "csv", "Output format").WithChoices("csv", "json")
	s.Flag("dry-run", "", "Validate without writing anything")
}

// Handle implements the command.
func (c *Export) Handle(_ context.Context, opts *cmdkit.ParseResult) (string, error) {
	if opts.Bool("dry-run") {
		c.Logger().Warn("Dry run: no files written.")
		return "", nil
	}
	return fmt.Sprintf("INSERT INTO exports (format) VALUES ('%s');", opts.String("format")), nil
}
