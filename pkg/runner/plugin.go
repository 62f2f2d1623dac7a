// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"plugin"

	"cmdkit/pkg/cmdkit"
	"cmdkit/pkg/registry"
)

// PluginLoader loads command files built as Go plugins (-buildmode=plugin).
// This is the closest analog of loading a command module at runtime: the
// plugin exports a package-level `Command` variable of type cmdkit.Factory
// for the direct convention, a `Registry` variable of type
// *registry.Registry for the registry convention, or both.
type PluginLoader struct{}

// Match accepts .so files.
func (PluginLoader) Match(name string) bool {
	return filepath.Ext(name) == ".so"
}

// Load opens the plugin and resolves its exported conventions. A plugin
// exporting neither symbol is broken.
func (PluginLoader) Load(path string) (*Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}

	module := &Module{}

	if sym, err := p.Lookup("Command"); err == nil {
		switch v := sym.(type) {
		case *cmdkit.Factory:
			module.Factory = *v
		case func() cmdkit.Command:
			module.Factory = v
		default:
			return nil, fmt.Errorf("plugin symbol Command has unsupported type %T", sym)
		}
	}

	if sym, err := p.Lookup("Registry"); err == nil {
		reg, ok := sym.(**registry.Registry)
		if !ok {
			return nil, fmt.Errorf("plugin symbol Registry has unsupported type %T", sym)
		}
		module.Registries = append(module.Registries, *reg)
	}

	if module.Factory == nil && len(module.Registries) == 0 {
		return nil, errors.New("plugin exports neither Command nor Registry")
	}
	return module, nil
}
