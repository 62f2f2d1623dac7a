// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cmdkit/pkg/cmdkit"
)

type echoCommand struct {
	cmdkit.BaseCommand

	reply string
}

func (c *echoCommand) Handle(context.Context, *cmdkit.ParseResult) (string, error) {
	return c.reply, nil
}

func echoFactory(help, reply string, out io.Writer) cmdkit.Factory {
	return func() cmdkit.Command {
		cmd := &echoCommand{reply: reply}
		cmd.Help = help
		cmd.SetStdout(out)
		return cmd
	}
}

func testRegistry(t *testing.T) (*Registry, *bytes.Buffer, *[]int) {
	t.Helper()

	var codes []int
	out := &bytes.Buffer{}
	r := New(
		WithOutput(out),
		WithErrOutput(io.Discard),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
		WithLogger(log.New(io.Discard)),
	)
	return r, out, &codes
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r, _, _ := testRegistry(t)

	factory := echoFactory("Echoes.", "hi", io.Discard)
	if got := r.Register("echo", factory); got == nil {
		t.Fatal("Register() returned nil factory")
	}

	if _, ok := r.Get("echo"); !ok {
		t.Error("Get(echo) not found after Register")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r, _, _ := testRegistry(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Add(name, echoFactory("", "", io.Discard))
	}

	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r, _, _ := testRegistry(t)
	r.Add("echo", echoFactory("first", "one", io.Discard))
	r.Add("echo", echoFactory("second", "two", io.Discard))

	factory, _ := r.Get("echo")
	if got := factory().Base().Help; got != "second" {
		t.Errorf("Help = %q, want second", got)
	}
}

func TestRegistry_RunWithoutSubcommandPrintsUsage(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"no args", []string{"tool"}},
		{"short help", []string{"tool", "-h"}},
		{"long help", []string{"tool", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, codes := testRegistry(t)
			r.Add("greet", echoFactory("Greets someone.", "", io.Discard))
			r.Add("export", echoFactory("", "", io.Discard))

			if err := r.Run(tt.argv); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(*codes) != 1 || (*codes)[0] != 0 {
				t.Errorf("exit codes = %v, want [0]", *codes)
			}

			usage := out.String()
			if !strings.Contains(usage, "Usage: tool <command> [options]") {
				t.Errorf("usage missing header: %q", usage)
			}
			if !strings.Contains(usage, "Greets someone.") {
				t.Errorf("usage missing help text: %q", usage)
			}
			if !strings.Contains(usage, "(no description)") {
				t.Errorf("usage missing placeholder for undescribed command: %q", usage)
			}
			if strings.Index(usage, "export") > strings.Index(usage, "greet") {
				t.Errorf("commands not sorted:\n%s", usage)
			}
		})
	}
}

func TestRegistry_RunUnknownCommandExitsOne(t *testing.T) {
	var logBuf bytes.Buffer
	var codes []int
	r := New(
		WithOutput(io.Discard),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
		WithLogger(log.New(&logBuf)),
	)
	r.Add("greet", echoFactory("", "", io.Discard))

	if err := r.Run([]string{"tool", "nope"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(codes) != 1 || codes[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", codes)
	}
	report := logBuf.String()
	if !strings.Contains(report, `Unknown command: "nope"`) {
		t.Errorf("log = %q", report)
	}
	if !strings.Contains(report, "Available commands: greet") {
		t.Errorf("log = %q", report)
	}
}

func TestRegistry_RunUnknownWithEmptyRegistry(t *testing.T) {
	var logBuf bytes.Buffer
	var codes []int
	r := New(
		WithOutput(io.Discard),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
		WithLogger(log.New(&logBuf)),
	)

	if err := r.Run([]string{"tool", "nope"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(logBuf.String(), "(none registered)") {
		t.Errorf("log = %q", logBuf.String())
	}
	if len(codes) != 1 || codes[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", codes)
	}
}

func TestRegistry_RunDispatchesWithRemainingArgs(t *testing.T) {
	var got []string
	r, _, codes := testRegistry(t)
	r.Add("greet", func() cmdkit.Command {
		cmd := &argCapture{args: &got}
		cmd.SetStdout(io.Discard)
		return cmd
	})

	if err := r.Run([]string{"tool", "greet", "Alice", "--verbosity", "2"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none on success", *codes)
	}
	if len(got) != 1 || got[0] != "Alice" {
		t.Errorf("args = %v, want [Alice]", got)
	}
}

type argCapture struct {
	cmdkit.BaseCommand

	args *[]string
}

func (c *argCapture) Handle(_ context.Context, opts *cmdkit.ParseResult) (string, error) {
	*c.args = opts.Args()
	return "", nil
}

func TestRegistry_RunPropagatesExitHookToCommand(t *testing.T) {
	var codes []int
	r := New(
		WithOutput(io.Discard),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
		WithLogger(log.New(io.Discard)),
	)
	r.Add("fail", func() cmdkit.Command {
		cmd := &failCommand{}
		cmd.SetStderr(io.Discard)
		return cmd
	})

	if err := r.Run([]string{"tool", "fail"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(codes) != 1 || codes[0] != 4 {
		t.Errorf("exit codes = %v, want [4]", codes)
	}
}

type failCommand struct {
	cmdkit.BaseCommand
}

func (c *failCommand) Handle(context.Context, *cmdkit.ParseResult) (string, error) {
	return "", cmdkit.NewCommandError("broken").WithReturnCode(4)
}
