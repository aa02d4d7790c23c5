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

package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/library"
)

func mustLoad(t *testing.T, src string) *library.Library {
	t.Helper()

	lib := library.New(nil, nil)
	require.NoError(t, lib.LoadSource("t.shdl", src))

	return lib
}

func kindCounts(n *base.Netlist) map[ast.Kind]int {
	out := map[ast.Kind]int{}
	for _, g := range n.Gates {
		out[g.Kind]++
	}

	return out
}

const halfAdderSrc = `
component half_adder(a, b) -> (sum, carry) {
	x1: XOR;
	a1: AND;
	connect {
		a -> x1.A;
		b -> x1.B;
		a -> a1.A;
		b -> a1.B;
		x1.O -> sum;
		a1.O -> carry;
	}
}
`

func TestFlattenHalfAdderProducesOnlyPrimitives(t *testing.T) {
	lib := mustLoad(t, halfAdderSrc)
	bag := diag.NewBag()

	n, err := Flatten("half_adder", lib, bag)
	require.NoError(t, err)
	assert.True(t, bag.Empty())
	assert.Equal(t, map[ast.Kind]int{ast.XOR: 1, ast.AND: 1}, kindCounts(n))
	assert.Len(t, n.Connections, 6)
}

func TestFlattenGeneratorExpandsOneGatePerIteration(t *testing.T) {
	src := `
component bus_and(a[4], b[4]) -> (o[4]) {
	>i[1:4] {
		g{i}: AND;
	}
	connect {
		>i[1:4] {
			a[i] -> g{i}.A;
			b[i] -> g{i}.B;
			g{i}.O -> o[i];
		}
	}
}
`
	lib := mustLoad(t, src)
	bag := diag.NewBag()

	n, err := Flatten("bus_and", lib, bag)
	require.NoError(t, err)
	assert.Equal(t, map[ast.Kind]int{ast.AND: 4}, kindCounts(n))
}

func TestFlattenConstantMaterializesVccAndGnd(t *testing.T) {
	src := `
component two() -> (o[2]) {
	k = 2;
	connect {
		k -> o;
	}
}
`
	lib := mustLoad(t, src)
	bag := diag.NewBag()

	n, err := Flatten("two", lib, bag)
	require.NoError(t, err)
	assert.Equal(t, map[ast.Kind]int{ast.VCC: 1, ast.GND: 1}, kindCounts(n))
}

func TestFlattenUnusedConstantIsWarning(t *testing.T) {
	src := `
component c() -> (o) {
	k = 0;
	j = 1;
	connect {
		j -> o;
	}
}
`
	lib := mustLoad(t, src)
	bag := diag.NewBag()

	_, err := Flatten("c", lib, bag)
	require.NoError(t, err)
	assert.False(t, bag.Fatal())

	var found bool

	for _, d := range bag.All() {
		if d.Code == diag.UnusedConstant {
			found = true
		}
	}

	assert.True(t, found)
}

func TestFlattenWireThroughHierarchyAddsNoExtraGates(t *testing.T) {
	src := `
component inner(a) -> (b) {
	connect {
		a -> b;
	}
}
component outer(a) -> (b) {
	i1: inner;
	connect {
		a -> i1.a;
		i1.b -> b;
	}
}
`
	lib := mustLoad(t, src)
	bag := diag.NewBag()

	n, err := Flatten("outer", lib, bag)
	require.NoError(t, err)
	assert.Empty(t, n.Gates)
	require.Len(t, n.Connections, 1)
	assert.Equal(t, base.PortEnd, n.Connections[0].Source.Kind)
	assert.Equal(t, "a", n.Connections[0].Source.Port)
	assert.Equal(t, base.PortEnd, n.Connections[0].Destination.Kind)
	assert.Equal(t, "b", n.Connections[0].Destination.Port)
}

func TestFlattenRecursiveComponentFails(t *testing.T) {
	src := `
component loop() -> () {
	i1: loop;
	connect {}
}
`
	lib := mustLoad(t, src)
	bag := diag.NewBag()

	_, err := Flatten("loop", lib, bag)
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.RecursiveComponent, d.Code)
}

func TestFlattenUnknownComponentFails(t *testing.T) {
	lib := mustLoad(t, "component c() -> () {}")
	bag := diag.NewBag()

	_, err := Flatten("missing", lib, bag)
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.UnknownComponent, d.Code)
}

func TestDetectCombinationalCyclesFindsSelfLoop(t *testing.T) {
	n := &base.Netlist{
		Gates: []base.Gate{{Name: "g1", Kind: ast.AND}},
		Connections: []base.Connection{
			{Source: base.Endpoint{Kind: base.InstanceEnd, Instance: "g1", Pin: "O"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "g1", Pin: "A"}},
		},
	}

	diags := DetectCombinationalCycles(n)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CombinationalCycle, diags[0].Code)
}

func TestDetectCombinationalCyclesIgnoresAcyclicChain(t *testing.T) {
	n := &base.Netlist{
		Gates: []base.Gate{{Name: "g1", Kind: ast.NOT}, {Name: "g2", Kind: ast.NOT}},
		Connections: []base.Connection{
			{Source: base.Endpoint{Kind: base.InstanceEnd, Instance: "g1", Pin: "O"}, Destination: base.Endpoint{Kind: base.InstanceEnd, Instance: "g2", Pin: "A"}},
		},
	}

	assert.Empty(t, DetectCombinationalCycles(n))
}
