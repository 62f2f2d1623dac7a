// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cmdkit/pkg/cmdkit"
	"cmdkit/pkg/registry"
)

type stubCommand struct {
	cmdkit.BaseCommand

	reply string
}

func (c *stubCommand) Handle(context.Context, *cmdkit.ParseResult) (string, error) {
	return c.reply, nil
}

func stubFactory(reply string) cmdkit.Factory {
	return func() cmdkit.Command {
		cmd := &stubCommand{reply: reply}
		cmd.SetStdout(io.Discard)
		return cmd
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testRunner(t *testing.T, dir string, catalog *Catalog) *Runner {
	t.Helper()
	return New(dir,
		WithLoaders(NewDescriptorLoader(catalog)),
		WithOutput(io.Discard),
		WithErrOutput(io.Discard),
		WithExitFunc(func(int) {}),
		WithLogger(log.New(io.Discard)),
	)
}

func TestRunner_DiscoverDirectCommand(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("hi"))
	writeFile(t, dir, "greet.toml", "kind = \"command\"\nfactory = \"greeter\"\n")

	commands := testRunner(t, dir, catalog).Discover()
	if _, ok := commands["greet"]; !ok {
		t.Fatalf("discovered = %v, want greet from file base name", keys(commands))
	}
}

func TestRunner_DiscoverRegistryMerge(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New(registry.WithLogger(log.New(io.Discard)))
	reg.Add("alpha", stubFactory("a"))
	reg.Add("beta", stubFactory("b"))

	catalog := NewCatalog()
	catalog.Registry("tools", reg)
	writeFile(t, dir, "tools.toml", "kind = \"registry\"\nregistries = [\"tools\"]\n")

	commands := testRunner(t, dir, catalog).Discover()
	for _, name := range []string{"alpha", "beta"} {
		if _, ok := commands[name]; !ok {
			t.Errorf("discovered = %v, missing %s", keys(commands), name)
		}
	}
	if _, ok := commands["tools"]; ok {
		t.Error("registry file base name should not become a command")
	}
}

func TestRunner_DiscoverSkipsUnderscoreAndDotFiles(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("hi"))
	writeFile(t, dir, "_hidden.toml", "kind = \"command\"\nfactory = \"greeter\"\n")
	writeFile(t, dir, ".dotted.toml", "kind = \"command\"\nfactory = \"greeter\"\n")
	writeFile(t, dir, "visible.toml", "kind = \"command\"\nfactory = \"greeter\"\n")

	commands := testRunner(t, dir, catalog).Discover()
	if len(commands) != 1 {
		t.Errorf("discovered = %v, want only visible", keys(commands))
	}
	if _, ok := commands["visible"]; !ok {
		t.Error("visible.toml not discovered")
	}
}

func TestRunner_DiscoverSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("hi"))
	writeFile(t, dir, "broken.toml", "kind = [not toml")
	writeFile(t, dir, "dangling.toml", "kind = \"command\"\nfactory = \"missing\"\n")
	writeFile(t, dir, "good.toml", "kind = \"command\"\nfactory = \"greeter\"\n")

	var logBuf bytes.Buffer
	r := New(dir,
		WithLoaders(NewDescriptorLoader(catalog)),
		WithLogger(log.New(&logBuf)),
	)

	commands := r.Discover()
	if len(commands) != 1 {
		t.Errorf("discovered = %v, want only good", keys(commands))
	}
	if _, ok := commands["good"]; !ok {
		t.Error("good.toml not discovered")
	}
	if !strings.Contains(logBuf.String(), "error loading command module") {
		t.Errorf("log = %q, want load errors reported", logBuf.String())
	}
}

func TestRunner_DiscoverSkipsUnmatchedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a command file")

	commands := testRunner(t, dir, NewCatalog()).Discover()
	if len(commands) != 0 {
		t.Errorf("discovered = %v, want none", keys(commands))
	}
}

func TestRunner_DiscoverMissingDirectoryYieldsNothing(t *testing.T) {
	commands := testRunner(t, filepath.Join(t.TempDir(), "absent"), NewCatalog()).Discover()
	if len(commands) != 0 {
		t.Errorf("discovered = %v, want none", keys(commands))
	}
}

func TestRunner_DiscoverRebuildsEveryCall(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("hi"))
	r := testRunner(t, dir, catalog)

	if got := r.Discover(); len(got) != 0 {
		t.Fatalf("discovered = %v, want none before files exist", keys(got))
	}

	writeFile(t, dir, "late.toml", "kind = \"command\"\nfactory = \"greeter\"\n")
	if _, ok := r.Discover()["late"]; !ok {
		t.Error("file added after first scan not discovered")
	}
}

func TestRunner_LaterFileOverwritesEarlierName(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New(registry.WithLogger(log.New(io.Discard)))
	reg.Add("greet", stubFactory("from registry"))

	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("direct"))
	catalog.Registry("tools", reg)
	// Sorted scan order: greet.toml before tools.toml.
	writeFile(t, dir, "greet.toml", "kind = \"command\"\nfactory = \"greeter\"\n")
	writeFile(t, dir, "tools.toml", "kind = \"registry\"\nregistries = [\"tools\"]\n")

	commands := testRunner(t, dir, catalog).Discover()
	factory, ok := commands["greet"]
	if !ok {
		t.Fatalf("discovered = %v, want greet", keys(commands))
	}
	out, err := cmdkit.Call(context.Background(), factory(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "from registry" {
		t.Errorf("out = %q, want the later registry entry to win", out)
	}
}

func TestRunner_RunDispatchesDiscoveredCommand(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	catalog := NewCatalog()
	catalog.Command("greeter", func() cmdkit.Command {
		cmd := &stubCommand{reply: "hello"}
		cmd.SetStdout(&buf)
		return cmd
	})
	writeFile(t, dir, "greet.toml", "kind = \"command\"\nfactory = \"greeter\"\n")

	if err := testRunner(t, dir, catalog).Run([]string{"tool", "greet"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("output = %q, want hello", buf.String())
	}
}

func TestRunner_RunListsDiscoveredCommands(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	var codes []int
	catalog := NewCatalog()
	catalog.Command("greeter", stubFactory("hi"))
	writeFile(t, dir, "greet.toml", "kind = \"command\"\nfactory = \"greeter\"\n")

	r := New(dir,
		WithLoaders(NewDescriptorLoader(catalog)),
		WithOutput(&out),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
		WithLogger(log.New(io.Discard)),
	)

	if err := r.Run([]string{"tool"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(codes) != 1 || codes[0] != 0 {
		t.Errorf("exit codes = %v, want [0]", codes)
	}
	if !strings.Contains(out.String(), "greet") {
		t.Errorf("usage = %q, want discovered name listed", out.String())
	}
}

func keys(m map[string]cmdkit.Factory) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
