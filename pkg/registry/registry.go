// SPDX-License-Identifier: MPL-2.0

// Package registry provides the static command registry: an explicit
// in-memory mapping from sub-command name to command factory, populated by
// registration calls at program initialization and dispatched through a
// single Run entry point.
package registry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"cmdkit/internal/config"
	"cmdkit/pkg/cmdkit"
)

// Registry maps sub-command names to command factories. Re-registering a
// name replaces the previous entry; the last writer wins without error.
type Registry struct {
	commands map[string]cmdkit.Factory

	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	exit   func(int)
}

// Option configures a Registry.
type Option func(*Registry)

// WithOutput redirects the usage listing (default os.Stdout).
func WithOutput(w io.Writer) Option { return func(r *Registry) { r.out = w } }

// WithErrOutput redirects error reporting (default os.Stderr).
func WithErrOutput(w io.Writer) Option { return func(r *Registry) { r.errOut = w } }

// WithExitFunc replaces the process exit hook (default os.Exit). The hook is
// propagated to dispatched commands so a host observes every exit path.
func WithExitFunc(f func(int)) Option { return func(r *Registry) { r.exit = f } }

// WithLogger replaces the registry's logger.
func WithLogger(l *log.Logger) Option { return func(r *Registry) { r.logger = l } }

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		commands: make(map[string]cmdkit.Factory),
		out:      os.Stdout,
		errOut:   os.Stderr,
		exit:     os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = cmdkit.NewLogger(config.Get().ProjectName)
	}
	return r
}

// Register inserts a factory under name and returns the factory so
// registration composes with variable declarations:
//
//	var newGreet = reg.Register("greet", func() cmdkit.Command { ... })
func (r *Registry) Register(name string, factory cmdkit.Factory) cmdkit.Factory {
	r.commands[name] = factory
	return factory
}

// Add inserts a factory under name.
func (r *Registry) Add(name string, factory cmdkit.Factory) {
	r.commands[name] = factory
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (cmdkit.Factory, bool) {
	f, ok := r.commands[name]
	return f, ok
}

// Names returns all registered names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses argv ([prog, subcommand, args...]), resolves the requested
// sub-command, and dispatches it. No sub-command or a help flag prints the
// usage summary and exits 0; an unknown sub-command reports the available
// names and exits 1; otherwise the command runs via RunFromArgv with the
// sub-command token stripped from argv.
func (r *Registry) Run(argv []string) error {
	prog := "unknown"
	if len(argv) > 0 {
		prog = argv[0]
	}

	if len(argv) < 2 || argv[1] == "-h" || argv[1] == "--help" {
		r.printUsage(prog)
		r.exit(0)
		return nil
	}

	subcommand := argv[1]
	factory, ok := r.commands[subcommand]
	if !ok {
		available := strings.Join(r.Names(), ", ")
		if available == "" {
			available = "(none registered)"
		}
		r.logger.Error(fmt.Sprintf(
			"Unknown command: %q. Available commands: %s. Type '%s --help' for usage.",
			subcommand, available, prog))
		r.exit(1)
		return nil
	}

	cmd := factory()
	cmd.Base().SetExitFunc(r.exit)
	return cmdkit.RunFromArgv(cmd, append([]string{prog}, argv[2:]...))
}

func (r *Registry) printUsage(prog string) {
	fmt.Fprintf(r.out, "Usage: %s <command> [options]\n\n", prog)
	fmt.Fprintln(r.out, "Available commands:")
	for _, name := range r.Names() {
		help := r.commands[name]().Base().Help
		if help == "" {
			help = "(no description)"
		}
		fmt.Fprintf(r.out, "  %-20s %s\n", name, help)
	}
	fmt.Fprintf(r.out, "\nRun '%s <command> --help' for command-specific help.\n", prog)
}
