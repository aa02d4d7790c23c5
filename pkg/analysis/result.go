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

package analysis

import (
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
)

// GateInfo is one primitive gate's lane assignment and resolved inputs.
// Inputs is keyed by the gate kind's fixed pin name ("A", "B" for AND/OR/
// XOR, "A" for NOT); VCC and GND have none.
type GateInfo struct {
	Name   string
	Kind   ast.Kind
	Output Lane
	Inputs map[string]Lane
	Span   diag.Span
}

// OutputBit is one bit of a top-level output port, resolved to the lane
// that drives it.
type OutputBit struct {
	Port   string
	Bit    uint
	Source Lane
}

// Result is the fully analyzed form of a Base-form netlist: every signal
// has a Lane, every gate input and output-port bit has been resolved to the
// Lane that drives it, and every structural defect that does not block
// compilation outright has been recorded as a warning.
type Result struct {
	Netlist *base.Netlist

	Gates      []GateInfo
	GateByName map[string]*GateInfo

	InputLane map[string][]Lane // top-level input port -> one Lane per bit, 0-based
	Outputs   []OutputBit

	// ChunkCounts gives, per SignalKind partition, how many LaneWidth-wide
	// chunks that partition needs.
	ChunkCounts map[SignalKind]uint

	Warnings []diag.Diagnostic
}

// InputWidth and OutputWidth pass through the underlying netlist's port
// widths for convenience at the simulator boundary.
func (r *Result) InputWidth(name string) (uint, bool)  { return r.Netlist.InputWidth(name) }
func (r *Result) OutputWidth(name string) (uint, bool) { return r.Netlist.OutputWidth(name) }
