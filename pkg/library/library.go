// Copyright the shdl authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package library implements the Component Library: resolution of `use
// module_name :: {Name1, ...}` imports against a configured search path,
// a process-scoped flat name -> component map, and import-cycle
// detection. Primitive gate kinds never enter this map at all: callers
// resolve a reference against ast.LookupPrimitive first and only consult a
// Library for user-defined components, so a user component can never
// shadow a primitive (register rejects the name outright; see register).
// Writes (registering newly-parsed components) take a write lock; lookups
// after compilation take a read lock, so concurrent simulator handles
// built from the same Library can read it freely once loading has
// finished.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/parser"
)

// Library resolves imports and caches parsed components in a flat,
// process-scoped namespace. A component name that collides with a
// primitive is rejected at registration time.
type Library struct {
	searchPath []string
	log        logrus.FieldLogger

	mu         sync.RWMutex
	components map[string]*ast.Component
	// loadedModules tracks which "module_name.shdl" files have already been
	// fully processed, so re-importing the same module is a cache hit.
	loadedModules map[string]bool
}

// New constructs a Library over the given search path (first match wins).
// A nil logger falls back to logrus's standard logger.
func New(searchPath []string, log logrus.FieldLogger) *Library {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Library{
		searchPath:    append([]string{}, searchPath...),
		log:           log,
		components:    map[string]*ast.Component{},
		loadedModules: map[string]bool{},
	}
}

// Lookup returns the named user component, or ok=false if no loaded
// component has that name. Primitive kinds are never found here.
func (l *Library) Lookup(name string) (*ast.Component, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.components[name]

	return c, ok
}

// Names returns every currently-registered user component name, for
// did-you-mean suggestions.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.components))
	for n := range l.components {
		names = append(names, n)
	}

	return names
}

// register adds a freshly-parsed component to the flat namespace, failing
// if the name collides with a primitive or an already-loaded component.
func (l *Library) register(c *ast.Component) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := ast.LookupPrimitive(c.Name); ok {
		return diag.New(diag.DuplicateName, c.Span, "component %q redefines a reserved primitive name", c.Name)
	}

	if existing, ok := l.components[c.Name]; ok {
		return diag.New(diag.DuplicateName, c.Span, "component %q already defined at %s", c.Name, existing.Span)
	}

	l.components[c.Name] = c
	l.log.WithField("component", c.Name).Debug("registered component")

	return nil
}

// LoadModule locates "<module>.shdl" on the search path, parses it, and
// registers every component it declares, recursively resolving its own
// imports first. stack carries the chain of modules currently being
// loaded, for ImportCycle detection.
func (l *Library) LoadModule(module string, stack []string) error {
	l.mu.RLock()
	done := l.loadedModules[module]
	l.mu.RUnlock()

	if done {
		return nil
	}

	for _, m := range stack {
		if m == module {
			return diag.New(diag.ImportCycle, diag.NoSpan, "import cycle detected: %v -> %s", stack, module)
		}
	}

	path, err := l.resolvePath(module)
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(path) //nolint:gosec // path comes from a configured, trusted search list
	if err != nil {
		return diag.New(diag.ModuleNotFound, diag.NoSpan, "reading %q: %v", path, err)
	}

	mod, err := parser.Parse(path, string(contents))
	if err != nil {
		return err
	}

	childStack := append(append([]string{}, stack...), module)

	for _, imp := range mod.Imports {
		if err := l.LoadModule(imp.Module, childStack); err != nil {
			return err
		}

		if err := l.checkImportedNames(imp); err != nil {
			return err
		}
	}

	for _, c := range mod.Components {
		if err := l.register(c); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.loadedModules[module] = true
	l.mu.Unlock()

	return nil
}

// checkImportedNames verifies every name an import requests is registered
// in the library's flat namespace. It does not check which module declared
// that name.
func (l *Library) checkImportedNames(imp ast.Import) error {
	for _, name := range imp.Components {
		if _, ok := l.Lookup(name); !ok {
			return diag.New(diag.ComponentNotInModule, imp.Span,
				"module %q does not declare component %q", imp.Module, name)
		}
	}

	return nil
}

func (l *Library) resolvePath(module string) (string, error) {
	filename := module + ".shdl"

	for _, dir := range l.searchPath {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", diag.New(diag.ModuleNotFound, diag.NoSpan,
		"module %q not found in search path %v", module, l.searchPath)
}

// LoadSource registers the components of an already-read source string
// directly, without touching the filesystem, and recursively resolves its
// imports. Useful for tests and for embedding callers that do not keep
// ".shdl" files on disk.
func (l *Library) LoadSource(filename, contents string) error {
	mod, err := parser.Parse(filename, contents)
	if err != nil {
		return err
	}

	for _, imp := range mod.Imports {
		if err := l.LoadModule(imp.Module, nil); err != nil {
			return err
		}

		if err := l.checkImportedNames(imp); err != nil {
			return err
		}
	}

	for _, c := range mod.Components {
		if err := l.register(c); err != nil {
			return err
		}
	}

	return nil
}

// String implements fmt.Stringer for diagnostic logging.
func (l *Library) String() string {
	return fmt.Sprintf("Library(%d components, search path %v)", len(l.components), l.searchPath)
}
