// SPDX-License-Identifier: MPL-2.0

// Package runner implements filesystem command discovery: a flat directory
// of command files is scanned on every run, each file resolved to command
// factories through pluggable loaders, and the resulting mapping dispatched
// exactly like a static registry. Discovery is rebuilt per call so added or
// removed command files take effect without restarting the host process.
package runner

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"cmdkit/internal/config"
	"cmdkit/pkg/cmdkit"
	"cmdkit/pkg/registry"
)

// Module is the loaded content of one command file. A file may provide a
// single command (the direct convention, registered under the file's base
// name), one or more registries (every registered name is merged under its
// own registry-assigned name), or both.
type Module struct {
	Factory    cmdkit.Factory
	Registries []*registry.Registry
}

// Loader resolves a command file into a Module. Loaders are consulted in
// order; the first whose Match accepts the file name handles it.
type Loader interface {
	// Match reports whether this loader handles the given file name.
	Match(name string) bool
	// Load resolves the file at path. An error marks the file broken;
	// discovery logs it and continues with the remaining files.
	Load(path string) (*Module, error)
}

// Runner discovers and runs commands from a directory of command files.
type Runner struct {
	dir     string
	loaders []Loader

	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	exit   func(int)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLoaders replaces the loader chain (default: descriptor loader over
// the package catalog, then the plugin loader).
func WithLoaders(loaders ...Loader) Option {
	return func(r *Runner) { r.loaders = loaders }
}

// WithOutput redirects the usage listing (default os.Stdout).
func WithOutput(w io.Writer) Option { return func(r *Runner) { r.out = w } }

// WithErrOutput redirects error reporting (default os.Stderr).
func WithErrOutput(w io.Writer) Option { return func(r *Runner) { r.errOut = w } }

// WithExitFunc replaces the process exit hook (default os.Exit).
func WithExitFunc(f func(int)) Option { return func(r *Runner) { r.exit = f } }

// WithLogger replaces the runner's logger.
func WithLogger(l *log.Logger) Option { return func(r *Runner) { r.logger = l } }

// New creates a Runner over dir. An empty dir falls back to the configured
// commands directory, resolved relative to the working directory the host
// program runs from.
func New(dir string, opts ...Option) *Runner {
	if dir == "" {
		dir = config.Get().CommandsDir
	}
	r := &Runner{
		dir:    dir,
		out:    os.Stdout,
		errOut: os.Stderr,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = cmdkit.NewLogger(config.Get().ProjectName)
	}
	if r.loaders == nil {
		r.loaders = []Loader{NewDescriptorLoader(DefaultCatalog), PluginLoader{}}
	}
	return r
}

// Discover scans the commands directory and builds the name-to-factory
// mapping. The scan is non-recursive and processed in sorted file order;
// names starting with an underscore or a dot are skipped, as are files no
// loader recognizes. A file that fails to load is logged and skipped so one
// broken command file never takes down discovery of the rest. Within one
// file the direct-convention command is merged before the registry entries;
// a later file or registry entry with the same name silently overwrites an
// earlier one. The mapping is rebuilt on every call, never cached.
func (r *Runner) Discover() map[string]cmdkit.Factory {
	commands := make(map[string]cmdkit.Factory)

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return commands
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}

		loader := r.loaderFor(name)
		if loader == nil {
			continue
		}

		path := filepath.Join(r.dir, name)
		module, err := loader.Load(path)
		if err != nil {
			r.logger.Error("error loading command module", "path", path, "error", err)
			continue
		}

		if module.Factory != nil {
			base := strings.TrimSuffix(name, filepath.Ext(name))
			commands[base] = module.Factory
		}
		for _, reg := range module.Registries {
			for _, cmdName := range reg.Names() {
				factory, _ := reg.Get(cmdName)
				commands[cmdName] = factory
			}
		}
	}

	return commands
}

func (r *Runner) loaderFor(name string) Loader {
	for _, l := range r.loaders {
		if l.Match(name) {
			return l
		}
	}
	return nil
}

// Run rebuilds discovery and dispatches argv with the same behavior as the
// static registry: help or no sub-command lists the discovered names and
// exits 0, an unknown name exits 1, and a known command runs via
// RunFromArgv with the sub-command token stripped.
func (r *Runner) Run(argv []string) error {
	reg := registry.New(
		registry.WithOutput(r.out),
		registry.WithErrOutput(r.errOut),
		registry.WithExitFunc(r.exit),
		registry.WithLogger(r.logger),
	)
	for name, factory := range r.Discover() {
		reg.Add(name, factory)
	}
	return reg.Run(argv)
}
