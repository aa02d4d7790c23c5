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

// Package debuginfo emits a JSON sidecar mapping every gate in an analyzed
// netlist back to its lane assignment and originating source span, so an
// external waveform viewer or debugger can correlate a simulator trace with
// source locations without depending on pkg/analysis's in-memory types.
package debuginfo

import (
	"encoding/json"
	"io"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/sim"
)

// GateEntry is one gate's debug record.
type GateEntry struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Chunk uint   `json:"chunk"`
	Bit   uint   `json:"bit"`
	File  string `json:"file,omitempty"`
	Line  uint   `json:"line,omitempty"`
}

// PortEntry is one bit of one top-level port's debug record.
type PortEntry struct {
	Port  string `json:"port"`
	Bit   uint   `json:"bit"`
	Kind  string `json:"kind"`
	Chunk uint   `json:"chunk"`
	Lane  uint   `json:"lane"`
}

// Document is the full sidecar written alongside a compiled netlist.
type Document struct {
	Component string      `json:"component"`
	Gates     []GateEntry `json:"gates"`
	Inputs    []PortEntry `json:"inputs"`
	Outputs   []PortEntry `json:"outputs"`
}

// Build assembles a Document from an analyzed netlist.
func Build(result *analysis.Result) Document {
	doc := Document{Component: result.Netlist.Name}

	for _, g := range result.Gates {
		doc.Gates = append(doc.Gates, GateEntry{
			Name:  g.Name,
			Kind:  sim.KindName(g.Output.Kind),
			Chunk: g.Output.Chunk,
			Bit:   g.Output.Bit,
			File:  g.Span.File,
			Line:  g.Span.StartLine,
		})
	}

	for name, lanes := range result.InputLane {
		for bit, lane := range lanes {
			doc.Inputs = append(doc.Inputs, PortEntry{
				Port: name, Bit: uint(bit), Kind: sim.KindName(lane.Kind), Chunk: lane.Chunk, Lane: lane.Bit,
			})
		}
	}

	for _, ob := range result.Outputs {
		doc.Outputs = append(doc.Outputs, PortEntry{
			Port: ob.Port, Bit: ob.Bit, Kind: sim.KindName(ob.Source.Kind), Chunk: ob.Source.Chunk, Lane: ob.Source.Bit,
		})
	}

	return doc
}

// Write serializes a Document as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
