// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"cmdkit/pkg/cmdkit"
	"cmdkit/pkg/registry"
)

// Catalog holds the compiled command factories and registries that TOML
// descriptor files may reference. Go resolves code at compile time, so the
// descriptor convention splits the dynamic-module idea in two: the catalog
// carries the code, and the files on disk decide what is exposed.
type Catalog struct {
	factories  map[string]cmdkit.Factory
	registries map[string]*registry.Registry
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		factories:  make(map[string]cmdkit.Factory),
		registries: make(map[string]*registry.Registry),
	}
}

// Command registers a factory under name for descriptor files to reference.
// Re-registering a name replaces the previous entry.
func (c *Catalog) Command(name string, factory cmdkit.Factory) {
	c.factories[name] = factory
}

// Registry registers a registry under name for descriptor files to reference.
func (c *Catalog) Registry(name string, reg *registry.Registry) {
	c.registries[name] = reg
}

// DefaultCatalog is the catalog used by runners constructed without an
// explicit loader chain. Command packages typically populate it from init.
var DefaultCatalog = NewCatalog()

// RegisterCommand registers a factory in the DefaultCatalog.
func RegisterCommand(name string, factory cmdkit.Factory) {
	DefaultCatalog.Command(name, factory)
}

// RegisterRegistry registers a registry in the DefaultCatalog.
func RegisterRegistry(name string, reg *registry.Registry) {
	DefaultCatalog.Registry(name, reg)
}

// descriptor is the parsed shape of a TOML command file.
type descriptor struct {
	// Kind selects the convention: "command" exposes a single catalog
	// factory under the file's base name, "registry" merges every name
	// from the referenced registries.
	Kind string `toml:"kind"`
	// Factory names the catalog factory (kind = "command").
	Factory string `toml:"factory"`
	// Registries names the catalog registries (kind = "registry").
	Registries []string `toml:"registries"`
}

// DescriptorLoader loads TOML descriptor files against a Catalog. Malformed
// TOML, an unknown kind, or a dangling catalog reference all mark the file
// broken.
type DescriptorLoader struct {
	catalog *Catalog
}

// NewDescriptorLoader creates a DescriptorLoader over the given catalog.
func NewDescriptorLoader(catalog *Catalog) *DescriptorLoader {
	return &DescriptorLoader{catalog: catalog}
}

// Match accepts .toml files.
func (l *DescriptorLoader) Match(name string) bool {
	return filepath.Ext(name) == ".toml"
}

// Load parses the descriptor and resolves its references.
func (l *DescriptorLoader) Load(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var d descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	switch d.Kind {
	case "command":
		factory, ok := l.catalog.factories[d.Factory]
		if !ok {
			return nil, fmt.Errorf("descriptor references unknown command factory %q", d.Factory)
		}
		return &Module{Factory: factory}, nil

	case "registry":
		if len(d.Registries) == 0 {
			return nil, fmt.Errorf("registry descriptor lists no registries")
		}
		module := &Module{}
		for _, name := range d.Registries {
			reg, ok := l.catalog.registries[name]
			if !ok {
				return nil, fmt.Errorf("descriptor references unknown registry %q", name)
			}
			module.Registries = append(module.Registries, reg)
		}
		return module, nil

	default:
		return nil, fmt.Errorf("unknown descriptor kind %q", d.Kind)
	}
}
