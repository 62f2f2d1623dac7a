// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Base option names present in every Schema. Each may be suppressed from
// help per command, but never removed.
const (
	OptVersion    = "version"
	OptVerbosity  = "verbosity"
	OptTraceback  = "traceback"
	OptNoColor    = "no-color"
	OptForceColor = "force-color"
)

// OptionKind describes the arity of an option.
type OptionKind int

const (
	// KindFlag is a boolean switch (arity 0).
	KindFlag OptionKind = iota
	// KindString takes a single string value.
	KindString
	// KindInt takes a single integer value.
	KindInt
	// KindStrings may be repeated, collecting every value.
	KindStrings
)

type (
	// Option is one recognized entry of a Schema. Options are created
	// through the Schema adder methods, which register them with the
	// underlying flag set; the returned pointer allows chained refinement
	// (choices, hiding) before parsing.
	Option struct {
		// Name is the long option name, without the leading dashes.
		Name string
		// Shorthand is the optional single-letter alias.
		Shorthand string
		// Kind describes the option's arity.
		Kind OptionKind
		// Choices, when non-empty, is the closed set of accepted values.
		Choices []string
		// Help is the description shown in rendered help.
		Help string

		defBool   bool
		defInt    int
		defString string
		hidden    bool
		base      bool
	}

	positional struct {
		metavar  string
		required bool
	}

	// Schema is the set of recognized options for one command invocation:
	// the base subset common to every command plus command-specific entries
	// contributed by AddArguments. Its parse failure behavior is dual-mode:
	// process-terminating when built for a live CLI invocation,
	// error-returning when built programmatically.
	Schema struct {
		prog        string
		description string
		version     string

		calledFromProcess  bool
		missingArgsMessage string

		fs   *pflag.FlagSet
		opts []*Option
		pos  *positional

		out    io.Writer
		errOut io.Writer
		exit   func(int)
	}
)

// NewSchema creates an empty Schema for the given program display name.
func NewSchema(prog, description string) *Schema {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return &Schema{
		prog:        prog,
		description: description,
		fs:          fs,
		out:         os.Stdout,
		errOut:      os.Stderr,
		exit:        os.Exit,
	}
}

// WithChoices restricts the option to a closed set of accepted values.
// Values outside the set fail parsing with an "invalid choice" error.
func (o *Option) WithChoices(choices ...string) *Option {
	o.Choices = choices
	return o
}

// Hidden suppresses the option from rendered help. It is still parsed
// normally when supplied.
func (o *Option) Hidden() *Option {
	o.hidden = true
	return o
}

// markBase tags a base option and hides it when the command suppressed it.
func (o *Option) markBase(suppressed map[string]bool) *Option {
	o.base = true
	if suppressed["--"+o.Name] || suppressed[o.Name] {
		o.hidden = true
	}
	return o
}

// dest is the key the parsed value is stored under, dashes normalized to
// underscores.
func (o *Option) dest() string { return destKey(o.Name) }

func destKey(name string) string { return strings.ReplaceAll(name, "-", "_") }

func (s *Schema) add(o *Option) *Option {
	for _, existing := range s.opts {
		if existing.Name == o.Name {
			panic(fmt.Sprintf("cmdkit: option --%s declared twice", o.Name))
		}
	}
	s.opts = append(s.opts, o)
	return o
}

// Flag declares a boolean switch defaulting to false.
func (s *Schema) Flag(name, shorthand, help string) *Option {
	s.fs.BoolP(name, shorthand, false, help)
	return s.add(&Option{Name: name, Shorthand: shorthand, Kind: KindFlag, Help: help})
}

// String declares a single-value string option.
func (s *Schema) String(name, shorthand, def, help string) *Option {
	s.fs.StringP(name, shorthand, def, help)
	return s.add(&Option{Name: name, Shorthand: shorthand, Kind: KindString, defString: def, Help: help})
}

// Int declares a single-value integer option.
func (s *Schema) Int(name, shorthand string, def int, help string) *Option {
	s.fs.IntP(name, shorthand, def, help)
	return s.add(&Option{Name: name, Shorthand: shorthand, Kind: KindInt, defInt: def, Help: help})
}

// Strings declares a repeatable string option collecting every occurrence.
func (s *Schema) Strings(name, shorthand, help string) *Option {
	s.fs.StringArrayP(name, shorthand, nil, help)
	return s.add(&Option{Name: name, Shorthand: shorthand, Kind: KindStrings, Help: help})
}

// Positional declares the positional arguments accepted after options.
// When required, parsing fails if no positional token is present.
func (s *Schema) Positional(metavar string, required bool) {
	s.pos = &positional{metavar: metavar, required: required}
}

// SetMissingArgsMessage sets the custom error used when required positional
// input is absent.
func (s *Schema) SetMissingArgsMessage(msg string) { s.missingArgsMessage = msg }

// Parse validates raw against the schema and resolves every option value.
//
// In process mode a failure prints usage plus the error to the error writer
// and terminates via the exit hook (status 2); --help and --version print
// their output and terminate with status 0. In programmatic mode the same
// failures return a CommandError prefixed "Error: ", and help/version
// requests return ErrHelpRequested / ErrVersionRequested; the process is
// never terminated.
func (s *Schema) Parse(raw []string) (*ParseResult, error) {
	// Friendlier message than the generic required-argument error when the
	// command expects positional input and got nothing at all.
	if s.missingArgsMessage != "" && len(raw) == 0 {
		return nil, s.fail(s.missingArgsMessage)
	}

	if err := s.fs.Parse(raw); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, s.helpRequested()
		}
		return nil, s.fail(err.Error())
	}

	if s.fs.Changed(OptVersion) {
		return nil, s.versionRequested()
	}

	for _, o := range s.opts {
		if len(o.Choices) == 0 {
			continue
		}
		val := s.resolvedString(o)
		if !slices.Contains(o.Choices, val) {
			return nil, s.fail(fmt.Sprintf(
				"argument --%s: invalid choice: %q (choose from %s)",
				o.Name, val, strings.Join(o.Choices, ", ")))
		}
	}

	if s.pos != nil && s.pos.required && s.fs.NArg() == 0 {
		msg := s.missingArgsMessage
		if msg == "" {
			msg = "the following arguments are required: " + s.pos.metavar
		}
		return nil, s.fail(msg)
	}

	values := make(map[string]any, len(s.opts))
	for _, o := range s.opts {
		values[o.dest()] = s.resolvedValue(o)
	}
	return &ParseResult{values: values, args: s.fs.Args()}, nil
}

func (s *Schema) resolvedValue(o *Option) any {
	switch o.Kind {
	case KindFlag:
		v, _ := s.fs.GetBool(o.Name)
		return v
	case KindInt:
		v, _ := s.fs.GetInt(o.Name)
		return v
	case KindStrings:
		v, _ := s.fs.GetStringArray(o.Name)
		return v
	default:
		v, _ := s.fs.GetString(o.Name)
		return v
	}
}

func (s *Schema) resolvedString(o *Option) string {
	if o.Kind == KindInt {
		v, _ := s.fs.GetInt(o.Name)
		return strconv.Itoa(v)
	}
	v, _ := s.fs.GetString(o.Name)
	return v
}

// fail reports a parse failure through the mode-appropriate channel.
func (s *Schema) fail(msg string) error {
	if s.calledFromProcess {
		fmt.Fprintln(s.errOut, s.usage())
		fmt.Fprintf(s.errOut, "%s: error: %s\n", s.prog, msg)
		s.exit(2)
	}
	return NewCommandError("Error: " + msg)
}

func (s *Schema) helpRequested() error {
	if s.calledFromProcess {
		fmt.Fprint(s.out, s.RenderHelp())
		s.exit(0)
	}
	return ErrHelpRequested
}

func (s *Schema) versionRequested() error {
	if s.calledFromProcess {
		fmt.Fprintln(s.out, s.version)
		s.exit(0)
	}
	return ErrVersionRequested
}

func (s *Schema) usage() string {
	parts := []string{"Usage:", s.prog, "[options]"}
	if s.pos != nil {
		if s.pos.required {
			parts = append(parts, s.pos.metavar, "["+s.pos.metavar+" ...]")
		} else {
			parts = append(parts, "["+s.pos.metavar+" ...]")
		}
	}
	return strings.Join(parts, " ")
}

// RenderHelp renders the full help text. Command-specific options are always
// listed before the base options regardless of declaration order; hidden
// options are omitted entirely.
func (s *Schema) RenderHelp() string {
	var b strings.Builder
	b.WriteString(s.usage() + "\n")
	if s.description != "" {
		b.WriteString("\n" + s.description + "\n")
	}

	b.WriteString("\nOptions:\n")
	for _, o := range s.opts {
		if !o.base && !o.hidden {
			b.WriteString(s.optionLine(o))
		}
	}
	for _, o := range s.opts {
		if o.base && !o.hidden {
			b.WriteString(s.optionLine(o))
		}
	}
	return b.String()
}

func (s *Schema) optionLine(o *Option) string {
	invocation := "--" + o.Name
	if o.Shorthand != "" {
		invocation = "-" + o.Shorthand + ", " + invocation
	}
	if o.Kind != KindFlag {
		invocation += " " + strings.ToUpper(o.dest())
	}

	help := o.Help
	if len(o.Choices) > 0 {
		help += fmt.Sprintf(" (choices: %s)", strings.Join(o.Choices, ", "))
	}
	switch {
	case o.Kind == KindString && o.defString != "":
		help += fmt.Sprintf(" (default: %s)", o.defString)
	case o.Kind == KindInt:
		help += fmt.Sprintf(" (default: %d)", o.defInt)
	}
	return fmt.Sprintf("  %-26s %s\n", invocation, help)
}

// dests returns the set of value keys this schema produces.
func (s *Schema) dests() map[string]bool {
	keys := make(map[string]bool, len(s.opts))
	for _, o := range s.opts {
		keys[o.dest()] = true
	}
	return keys
}

// defaults returns every option's default value keyed by dest.
func (s *Schema) defaults() map[string]any {
	values := make(map[string]any, len(s.opts))
	for _, o := range s.opts {
		switch o.Kind {
		case KindFlag:
			values[o.dest()] = o.defBool
		case KindInt:
			values[o.dest()] = o.defInt
		case KindStrings:
			values[o.dest()] = []string(nil)
		default:
			values[o.dest()] = o.defString
		}
	}
	return values
}

// ParseResult is the immutable outcome of one parse: resolved option values
// keyed by dest name plus the positional arguments. It is built fresh per
// invocation and discarded when the command returns.
type ParseResult struct {
	values map[string]any
	args   []string
}

// Has reports whether a value exists for the option.
func (r *ParseResult) Has(name string) bool {
	_, ok := r.values[destKey(name)]
	return ok
}

// Get returns the raw value for the option.
func (r *ParseResult) Get(name string) (any, bool) {
	v, ok := r.values[destKey(name)]
	return v, ok
}

// Bool returns the option's boolean value, or false when absent.
func (r *ParseResult) Bool(name string) bool {
	v, _ := r.values[destKey(name)].(bool)
	return v
}

// Int returns the option's integer value, or 0 when absent.
func (r *ParseResult) Int(name string) int {
	v, _ := r.values[destKey(name)].(int)
	return v
}

// String returns the option's string value, or "" when absent.
func (r *ParseResult) String(name string) string {
	v, _ := r.values[destKey(name)].(string)
	return v
}

// Strings returns the option's collected values, or nil when absent.
func (r *ParseResult) Strings(name string) []string {
	v, _ := r.values[destKey(name)].([]string)
	return v
}

// Args returns the positional arguments.
func (r *ParseResult) Args() []string { return r.args }
