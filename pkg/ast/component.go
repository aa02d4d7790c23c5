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

package ast

import "github.com/hdlforge/shdl/pkg/diag"

// Port is a named, widthed terminal of a component.  Width-1 ports are
// scalar; width>1 ports are 1-based vectors, bit 1 being the LSB.
type Port struct {
	Name  string
	Width uint
	Span  diag.Span
}

// Component is a single Expanded-form declaration: a name, ordered input
// and output port lists, a declaration list (instances/constants/
// generators), and a connect-block.
type Component struct {
	Name    string
	Inputs  []Port
	Outputs []Port
	Decls   []Decl
	Connect []Stmt
	Span    diag.Span
}

// InputWidth returns the width of the named input port, or (0, false).
func (c *Component) InputWidth(name string) (uint, bool) {
	for _, p := range c.Inputs {
		if p.Name == name {
			return p.Width, true
		}
	}

	return 0, false
}

// OutputWidth returns the width of the named output port, or (0, false).
func (c *Component) OutputWidth(name string) (uint, bool) {
	for _, p := range c.Outputs {
		if p.Name == name {
			return p.Width, true
		}
	}

	return 0, false
}

// Decl is any declaration appearing in a component body: an Instance, a
// Constant, or a Generator.
type Decl interface {
	declNode()
}

// Instance is a local name bound to a referenced component kind (a
// primitive, or a user component name to be resolved against a Library).
// NameTemplate carries the raw, possibly '{expr}'-templated name as parsed;
// Name holds the resolved plain name once NameTemplate.IsPlain() (set
// directly by the parser for non-generator-scoped instances, or by Phase 1
// generator expansion after substitution).
type Instance struct {
	Name         string
	NameTemplate Template
	Kind         Kind
	// Ref names the user component this instance refers to, when Kind is
	// PrimitiveNone. Empty when Kind is already a resolved primitive.
	Ref  string
	Span diag.Span
}

func (*Instance) declNode() {}

// Constant is a named, valued, optionally-widthed constant source. A
// constant's name is always a plain identifier, never templated.
type Constant struct {
	Name  string
	Value uint64
	// WidthSet reports whether Width was given explicitly in source; if
	// not, the flattener infers the minimum width needed for Value.
	Width    uint
	WidthSet bool
	Span     diag.Span
}

func (*Constant) declNode() {}
