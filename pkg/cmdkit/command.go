// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"cmdkit/internal/config"
	"cmdkit/pkg/style"
	"cmdkit/pkg/version"
)

type (
	// Factory constructs a fresh Command instance. Every invocation builds
	// its own instance; no state is shared across invocations.
	Factory func() Command

	// Command is the contract a command type must satisfy. Embedding
	// BaseCommand provides Base and default AddArguments/Handle
	// implementations, so a minimal command only overrides Handle.
	Command interface {
		// Base exposes the command's configuration carrier.
		Base() *BaseCommand
		// AddArguments contributes command-specific options to the Schema.
		AddArguments(s *Schema)
		// Handle implements the command's logic and returns its textual
		// output (possibly empty, meaning nothing to report).
		Handle(ctx context.Context, opts *ParseResult) (string, error)
	}

	// BaseCommand carries the configuration and collaborators shared by all
	// commands. A new instance backs every invocation and is discarded when
	// execution finishes.
	BaseCommand struct {
		// Help is the short description printed in help output and
		// registry listings.
		Help string
		// Version is the string printed by --version. Empty means
		// unresolved; ResolveVersion can populate it from build info.
		Version string
		// OutputTransaction wraps any non-empty Handle output in
		// BEGIN; / COMMIT; markers before reporting.
		OutputTransaction bool
		// SuppressedBaseOptions lists base option strings (e.g.
		// "--traceback") hidden from help but still accepted.
		SuppressedBaseOptions []string
		// StealthOptions lists option names accepted by Call without a
		// schema declaration.
		StealthOptions []string
		// MissingArgsMessage replaces the generic error when required
		// positional input is absent.
		MissingArgsMessage string

		logger            *log.Logger
		stdout            *OutputWrapper
		stderr            *OutputWrapper
		styler            *style.Style
		exit              func(int)
		calledFromProcess bool
	}
)

// Base implements the Command interface.
func (c *BaseCommand) Base() *BaseCommand { return c }

// AddArguments is a hook for command-specific options. The default adds none.
func (c *BaseCommand) AddArguments(*Schema) {}

// Handle must be shadowed by the embedding command type.
func (c *BaseCommand) Handle(context.Context, *ParseResult) (string, error) {
	return "", fmt.Errorf("commands embedding BaseCommand must implement Handle: %w", ErrNotImplemented)
}

// Stdout returns the command's output sink, defaulting to os.Stdout.
func (c *BaseCommand) Stdout() *OutputWrapper {
	if c.stdout == nil {
		c.stdout = NewOutputWrapper(os.Stdout)
	}
	return c.stdout
}

// Stderr returns the command's error sink, defaulting to os.Stderr.
func (c *BaseCommand) Stderr() *OutputWrapper {
	if c.stderr == nil {
		c.stderr = NewOutputWrapper(os.Stderr)
	}
	return c.stderr
}

// SetStdout redirects the output sink, e.g. to a buffer in tests.
func (c *BaseCommand) SetStdout(w io.Writer) { c.stdout = NewOutputWrapper(w) }

// SetStderr redirects the error sink.
func (c *BaseCommand) SetStderr(w io.Writer) { c.stderr = NewOutputWrapper(w) }

// Style returns the command's output styler.
func (c *BaseCommand) Style() *style.Style {
	if c.styler == nil {
		c.styler = style.ColorStyle(false)
	}
	return c.styler
}

// SetStyle replaces the output styler.
func (c *BaseCommand) SetStyle(s *style.Style) { c.styler = s }

// Logger returns the command's logger, built lazily from the framework
// configuration.
func (c *BaseCommand) Logger() *log.Logger {
	if c.logger == nil {
		c.logger = NewLogger(config.Get().ProjectName)
	}
	return c.logger
}

// SetLogger replaces the command's logger.
func (c *BaseCommand) SetLogger(l *log.Logger) { c.logger = l }

// SetExitFunc replaces the process exit hook (os.Exit by default). Tests and
// embedding hosts use it to observe exit codes without terminating.
func (c *BaseCommand) SetExitFunc(f func(int)) { c.exit = f }

func (c *BaseCommand) exitFunc() func(int) {
	if c.exit == nil {
		return os.Exit
	}
	return c.exit
}

// ResolveVersion populates Version from the running binary's build info.
// modulePath selects the dependency to look up; empty means the main module.
// On lookup failure a placeholder is used and a warning logged.
func (c *BaseCommand) ResolveVersion(modulePath string) {
	c.Version = version.Resolve(modulePath)
	if c.Version == version.Fallback {
		c.Logger().Warn("version could not be resolved from build info", "module", modulePath)
	}
}

// NewLogger builds a logger with the framework's configured level, timestamp
// reporting, and the given prefix.
func NewLogger(prefix string) *log.Logger {
	cfg := config.Get()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: cfg.ReportTimestamp,
	})
}

// CreateSchema builds the full Schema for one invocation: the base options
// (each suppressible per command), then the command's own contribution via
// AddArguments. The schema inherits the command's invocation mode, writers,
// and exit hook, so parse failures are routed through the right channel.
func CreateSchema(cmd Command, prog, subcommand string) *Schema {
	base := cmd.Base()

	s := NewSchema(strings.TrimSpace(prog+" "+subcommand), base.Help)
	s.calledFromProcess = base.calledFromProcess
	s.out = base.Stdout().Writer()
	s.errOut = base.Stderr().Writer()
	s.exit = base.exitFunc()

	s.version = base.Version
	if s.version == "" {
		s.version = version.Fallback
	}

	suppressed := make(map[string]bool, len(base.SuppressedBaseOptions))
	for _, name := range base.SuppressedBaseOptions {
		suppressed[name] = true
	}

	s.Flag(OptVersion, "", "Show the command's version number and exit.").
		markBase(suppressed)
	s.Int(OptVerbosity, "v", 1, "Verbosity level; 0=minimal, 1=normal, 2=verbose, 3=very verbose.").
		WithChoices("0", "1", "2", "3").
		markBase(suppressed)
	s.Flag(OptTraceback, "", "Return the raw CommandError instead of reporting it cleanly.").
		markBase(suppressed)
	s.Flag(OptNoColor, "", "Don't style command output.").
		markBase(suppressed)
	s.Flag(OptForceColor, "", "Force styled output even when not writing to a terminal.").
		markBase(suppressed)

	cmd.AddArguments(s)

	// Read after AddArguments so LabelCommand's computed default applies.
	s.missingArgsMessage = base.MissingArgsMessage
	return s
}

// Execute runs the command with already-parsed options: it validates the
// display-mode switches, dispatches to the label loop or Handle, applies
// transaction wrapping, and reports any non-empty output exactly once.
// The returned string is the reported (wrapped) form; empty means nothing
// was reported. Errors propagate untouched.
func Execute(ctx context.Context, cmd Command, opts *ParseResult) (string, error) {
	base := cmd.Base()

	if opts.Bool(OptNoColor) && opts.Bool(OptForceColor) {
		return "", NewCommandError("The --no-color and --force-color options can't be used together.")
	}
	switch {
	case opts.Bool(OptNoColor):
		base.SetStyle(style.NoStyle())
	case opts.Bool(OptForceColor):
		base.SetStyle(style.ColorStyle(true))
	}

	var (
		out string
		err error
	)
	if lh, ok := cmd.(LabelHandler); ok {
		out, err = runLabels(ctx, lh, opts)
	} else {
		out, err = cmd.Handle(ctx, opts)
	}
	if err != nil {
		return "", err
	}

	if out != "" {
		if base.OutputTransaction {
			out = "BEGIN;\n" + out + "\nCOMMIT;"
		}
		base.Stdout().Write(out)
	}
	return out, nil
}

// RunFromArgv is the CLI entry point: argv[0] is the program name and
// argv[1:] the arguments. It parses in process mode, executes with an
// interrupt-aware context, and is the only boundary that reports errors and
// terminates the process: a CommandError exits with its return code (unless
// --traceback was set, in which case it is returned raw), an interrupt
// reports "Aborted." and exits 1, and anything else is returned to the
// caller's default fault handling untouched.
func RunFromArgv(cmd Command, argv []string) error {
	base := cmd.Base()
	base.calledFromProcess = true

	prog := "unknown"
	if len(argv) > 0 {
		prog = filepath.Base(argv[0])
	}

	schema := CreateSchema(cmd, prog, "")
	opts, err := schema.Parse(argv[1:])
	if err != nil {
		// Process mode already reported and invoked the exit hook.
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = Execute(ctx, cmd, opts)
	if err == nil {
		return nil
	}

	var cmdErr *CommandError
	switch {
	case errors.As(err, &cmdErr):
		if opts.Bool(OptTraceback) {
			return err
		}
		base.Stderr().WriteWith(base.Style().Error, fmt.Sprintf("CommandError: %s", cmdErr.Message))
		base.exitFunc()(cmdErr.ReturnCode)
	case errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled):
		base.Stderr().WriteWith(base.Style().Warning, "Aborted.")
		base.exitFunc()(1)
	default:
		return err
	}
	return nil
}
