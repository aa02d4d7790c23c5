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
	"fmt"

	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
)

// materializeConstants runs Phase 3: every declared constant becomes one
// VCC or GND gate per bit, named "<constant>_bit<i>" (0-based, LSB first),
// and every ConstantEndpoint connection source is rewritten to read that
// gate's output instead. Constant bits nothing ever reads are reported
// through bag rather than dropped silently.
func materializeConstants(n *Netlist, constants []ast.Constant, bag *diag.Bag) *Netlist {
	if len(constants) == 0 {
		return n
	}

	gates := append([]Gate{}, n.Gates...)
	referenced := make(map[string]map[uint]bool, len(constants))

	for _, c := range constants {
		w := constantWidth(c)
		referenced[c.Name] = make(map[uint]bool, w)

		for bit := uint(0); bit < w; bit++ {
			kind := ast.GND
			if c.Value&(1<<bit) != 0 {
				kind = ast.VCC
			}

			gates = append(gates, Gate{Name: constantBitName(c.Name, bit), Kind: kind, Span: c.Span})
		}
	}

	conns := make([]Connection, 0, len(n.Connections))

	for _, conn := range n.Connections {
		if conn.Source.Kind == ConstantEndpoint {
			referenced[conn.Source.Name][conn.Source.Bit] = true
			conn.Source = Endpoint{Kind: InstanceEndpoint, Name: constantBitName(conn.Source.Name, conn.Source.Bit), Pin: ast.OutputPin}
		}

		conns = append(conns, conn)
	}

	for _, c := range constants {
		w := constantWidth(c)
		for bit := uint(0); bit < w; bit++ {
			if !referenced[c.Name][bit] {
				bag.Add(diag.New(diag.UnusedConstant, c.Span, "bit %d of constant %q is never read", bit, c.Name))
			}
		}
	}

	return &Netlist{
		Name:        n.Name,
		Inputs:      n.Inputs,
		Outputs:     n.Outputs,
		Gates:       gates,
		Connections: conns,
	}
}

func constantBitName(name string, bit uint) string {
	return fmt.Sprintf("%s_bit%d", name, bit)
}
