// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"cmdkit/pkg/cmdkit"
)

// Greet greets a user by name.
type Greet struct {
	cmdkit.BaseCommand
}

// NewGreet constructs the greet command.
func NewGreet() cmdkit.Command {
	return &Greet{
		BaseCommand: cmdkit.BaseCommand{
			Help:    "Greet a user by name",
			Version: "1.0.0",
		},
	}
}

// AddArguments declares the greet options.
func (c *Greet) AddArguments(s *cmdkit.Schema) {
	s.String("name", "", "", "Name to greet")
	s.Flag("shout", "", "Print in uppercase")
}

// Handle implements the command.
func (c *Greet) Handle(_ context.Context, opts *cmdkit.ParseResult) (string, error) {
	name := strings.TrimSpace(opts.String("name"))
	if name == "" {
		return "", cmdkit.NewCommandError("Name cannot be empty.")
	}

	msg := fmt.Sprintf("Hello, %s!", name)
	if opts.Bool("shout") {
		msg = strings.ToUpper(msg)
	}

	c.Stdout().WriteWith(c.Style().Success, msg)
	return "", nil
}
