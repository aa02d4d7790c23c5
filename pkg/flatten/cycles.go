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
	"strings"

	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
)

// DetectCombinationalCycles walks a Base-form netlist's gate dependency
// graph and reports one CombinationalCycle diagnostic per cycle found. A
// combinational cycle is legal input (it settles or oscillates under the
// simulator's two-phase update) so this is an opt-in diagnostic pass, never
// run automatically by Flatten, and its findings are always informational.
func DetectCombinationalCycles(n *base.Netlist) []diag.Diagnostic {
	deps := make(map[string]map[string]bool, len(n.Gates))

	for _, g := range n.Gates {
		deps[g.Name] = map[string]bool{}
	}

	for _, c := range n.Connections {
		if c.Destination.Kind != base.InstanceEnd || c.Source.Kind != base.InstanceEnd {
			continue
		}

		deps[c.Destination.Instance][c.Source.Instance] = true
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)

	state := make(map[string]int, len(n.Gates))

	var diags []diag.Diagnostic

	var stack []string

	var visit func(name string)

	visit = func(name string) {
		state[name] = visiting
		stack = append(stack, name)

		for dep := range deps[name] {
			switch state[dep] {
			case unvisited:
				visit(dep)
			case visiting:
				diags = append(diags, diag.New(diag.CombinationalCycle, diag.NoSpan,
					"combinational cycle: %s", cycleDescription(stack, dep)))
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, g := range n.Gates {
		if state[g.Name] == unvisited {
			visit(g.Name)
		}
	}

	return diags
}

// cycleDescription renders the portion of stack from its first occurrence
// of closesAt back to the top, joined with " -> ", closing the loop back to
// closesAt.
func cycleDescription(stack []string, closesAt string) string {
	start := 0

	for i, name := range stack {
		if name == closesAt {
			start = i
			break
		}
	}

	loop := append(append([]string{}, stack[start:]...), closesAt)

	return strings.Join(loop, " -> ")
}
