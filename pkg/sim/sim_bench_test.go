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

package sim_test

import (
	"fmt"
	"testing"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/sim"
)

// wideAndNetlist builds a Base-form netlist of n independent 2-input AND
// gates, each driven by its own pair of 1-bit top-level inputs, so a
// benchmark can compare evaluation cost just below, at, and just above one
// lane-packing chunk boundary (analysis.LaneWidth gates per chunk).
func wideAndNetlist(n int) *base.Netlist {
	inputs := make([]ast.Port, 0, 2*n)
	gates := make([]base.Gate, 0, n)
	conns := make([]base.Connection, 0, 3*n)

	for i := 0; i < n; i++ {
		aName, bName := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)
		gateName := fmt.Sprintf("g%d", i)

		inputs = append(inputs, ast.Port{Name: aName, Width: 1}, ast.Port{Name: bName, Width: 1})
		gates = append(gates, base.Gate{Name: gateName, Kind: ast.AND})
		conns = append(conns,
			base.Connection{Source: base.Endpoint{Kind: base.PortEnd, Port: aName}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: gateName, Pin: "A"}},
			base.Connection{Source: base.Endpoint{Kind: base.PortEnd, Port: bName}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: gateName, Pin: "B"}},
		)
	}

	return &base.Netlist{Inputs: inputs, Gates: gates, Connections: conns}
}

func benchmarkStep(b *testing.B, gateCount int) {
	bag := diag.NewBag()

	result, err := analysis.Analyze(wideAndNetlist(gateCount), bag)
	if err != nil {
		b.Fatal(err)
	}

	s := sim.New(result)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.Step(1)
	}
}

func BenchmarkStepOneChunkBelowBoundary(b *testing.B) { benchmarkStep(b, analysis.LaneWidth-1) }
func BenchmarkStepAtChunkBoundary(b *testing.B)       { benchmarkStep(b, analysis.LaneWidth) }
func BenchmarkStepOneChunkAboveBoundary(b *testing.B) { benchmarkStep(b, analysis.LaneWidth+1) }
