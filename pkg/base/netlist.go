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

// Package base defines the Base-form netlist: the flattener's output and
// the analyzer's input.  A Netlist contains only primitive gate instances
// and single-bit connections — no slices, no user components, no
// generators, no constants.  Instances produced by pkg/flatten.Flatten are
// never mutated after construction; a Netlist is an immutable artifact
// shared freely between an Analyzer run and any number of simulator
// handles built from its analysis.
package base

import (
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
)

// Gate is one primitive gate instance in a flattened netlist. Name is
// globally unique within the netlist (hierarchy-prefixed by the flattener,
// e.g. "fa1_x1").
type Gate struct {
	Name string
	Kind ast.Kind
	Span diag.Span
}

// EndKind distinguishes the two possible shapes of a connection endpoint.
type EndKind int

// The two endpoint shapes: a component port bit, or an instance pin.
const (
	PortEnd EndKind = iota
	InstanceEnd
)

// Endpoint is a single-bit connection endpoint: either (Port, Bit) or
// (Instance, Pin). Bit is 0-based here (Base form has already resolved
// 1-based source bit indices down to 0-based lane-friendly offsets).
type Endpoint struct {
	Kind     EndKind
	Port     string // valid when Kind == PortEnd
	Bit      uint   // valid when Kind == PortEnd
	Instance string // valid when Kind == InstanceEnd
	Pin      string // valid when Kind == InstanceEnd ("A", "B", or "O")
}

// Connection is a single-bit, directed wire from Source to Destination.
type Connection struct {
	Source      Endpoint
	Destination Endpoint
	Span        diag.Span
}

// Netlist is the complete Base-form output for one top-level component:
// its port header (unchanged from the Expanded source), a flat gate list,
// and a flat connection list, both in flattening-discovery order (which is
// what makes lane assignment in pkg/analysis deterministic).
type Netlist struct {
	Name        string
	Inputs      []ast.Port
	Outputs     []ast.Port
	Gates       []Gate
	Connections []Connection
}

// InputWidth returns the width of the named top-level input port.
func (n *Netlist) InputWidth(name string) (uint, bool) {
	for _, p := range n.Inputs {
		if p.Name == name {
			return p.Width, true
		}
	}

	return 0, false
}

// OutputWidth returns the width of the named top-level output port.
func (n *Netlist) OutputWidth(name string) (uint, bool) {
	for _, p := range n.Outputs {
		if p.Name == name {
			return p.Width, true
		}
	}

	return 0, false
}
