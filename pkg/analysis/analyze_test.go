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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
)

func halfAdderNetlist() *base.Netlist {
	return &base.Netlist{
		Name:    "half_adder",
		Inputs:  []ast.Port{{Name: "a", Width: 1}, {Name: "b", Width: 1}},
		Outputs: []ast.Port{{Name: "sum", Width: 1}, {Name: "carry", Width: 1}},
		Gates: []base.Gate{
			{Name: "x1", Kind: ast.XOR},
			{Name: "a1", Kind: ast.AND},
		},
		Connections: []base.Connection{
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "a"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "x1", Pin: "A"}},
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "b"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "x1", Pin: "B"}},
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "a"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "a1", Pin: "A"}},
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "b"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "a1", Pin: "B"}},
			{Source: base.Endpoint{Kind: base.InstanceEnd, Instance: "x1", Pin: "O"}, Destination: base.Endpoint{Kind: base.PortEnd, Port: "sum"}},
			{Source: base.Endpoint{Kind: base.InstanceEnd, Instance: "a1", Pin: "O"}, Destination: base.Endpoint{Kind: base.PortEnd, Port: "carry"}},
		},
	}
}

func TestAnalyzeHalfAdderResolvesEveryLane(t *testing.T) {
	bag := diag.NewBag()

	result, err := Analyze(halfAdderNetlist(), bag)
	require.NoError(t, err)
	assert.True(t, bag.Empty())

	assert.Contains(t, result.GateByName, "x1")
	assert.Contains(t, result.GateByName, "a1")

	x1 := result.GateByName["x1"]
	assert.Equal(t, result.InputLane["a"][0], x1.Inputs["A"])
	assert.Equal(t, result.InputLane["b"][0], x1.Inputs["B"])

	require.Len(t, result.Outputs, 2)
	assert.Equal(t, x1.Output, result.Outputs[0].Source)
}

func TestAnalyzeMissingDriverIsWarningNotError(t *testing.T) {
	n := &base.Netlist{
		Outputs: []ast.Port{{Name: "o", Width: 1}},
		Gates:   []base.Gate{{Name: "g1", Kind: ast.AND}},
	}
	bag := diag.NewBag()

	_, err := Analyze(n, bag)
	require.NoError(t, err)
	assert.False(t, bag.Fatal())

	var codes []diag.Code
	for _, d := range bag.All() {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, diag.MissingDriver)
}

func TestAnalyzeMissingDriverCanBePromotedToFatal(t *testing.T) {
	n := &base.Netlist{
		Outputs: []ast.Port{{Name: "o", Width: 1}},
	}
	bag := diag.NewBag()
	bag.SetMissingDriverFatal(true)

	_, err := Analyze(n, bag)
	require.NoError(t, err)
	assert.True(t, bag.Fatal())
}

func TestAnalyzeMultiDriverIsDetected(t *testing.T) {
	n := &base.Netlist{
		Inputs:  []ast.Port{{Name: "a", Width: 1}, {Name: "b", Width: 1}},
		Outputs: []ast.Port{{Name: "o", Width: 1}},
		Connections: []base.Connection{
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "a"}, Destination: base.Endpoint{Kind: base.PortEnd, Port: "o"}},
			{Source: base.Endpoint{Kind: base.PortEnd, Port: "b"}, Destination: base.Endpoint{Kind: base.PortEnd, Port: "o"}},
		},
	}
	bag := diag.NewBag()

	_, err := Analyze(n, bag)
	require.NoError(t, err)
	assert.True(t, bag.Fatal())

	var found bool

	for _, d := range bag.All() {
		if d.Code == diag.MultiDriver {
			found = true
		}
	}

	assert.True(t, found)
}

func TestAnalyzePartitionsLanesByGateKind(t *testing.T) {
	var gates []base.Gate
	for i := 0; i < 3; i++ {
		gates = append(gates, base.Gate{Name: fmt.Sprintf("and%d", i), Kind: ast.AND})
	}

	gates = append(gates, base.Gate{Name: "or0", Kind: ast.OR})

	n := &base.Netlist{Gates: gates}
	bag := diag.NewBag()

	result, err := Analyze(n, bag)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, SignalAND, result.GateByName[fmt.Sprintf("and%d", i)].Output.Kind)
	}

	assert.Equal(t, SignalOR, result.GateByName["or0"].Output.Kind)
	assert.Equal(t, uint(1), result.ChunkCounts[SignalAND])
	assert.Equal(t, uint(1), result.ChunkCounts[SignalOR])
	assert.Equal(t, uint(0), result.ChunkCounts[SignalXOR])
}

func TestAnalyzeLaneAllocatorRollsOverAtChunkBoundary(t *testing.T) {
	var gates []base.Gate
	for i := 0; i < LaneWidth+1; i++ {
		gates = append(gates, base.Gate{Name: fmt.Sprintf("n%d", i), Kind: ast.NOT})
	}

	n := &base.Netlist{Gates: gates}
	bag := diag.NewBag()

	result, err := Analyze(n, bag)
	require.NoError(t, err)
	assert.Equal(t, uint(2), result.ChunkCounts[SignalNOT])

	first := result.GateByName["n0"].Output
	last := result.GateByName[fmt.Sprintf("n%d", LaneWidth)].Output
	assert.Equal(t, uint(0), first.Chunk)
	assert.Equal(t, uint(1), last.Chunk)
	assert.Equal(t, uint(0), last.Bit)
}
