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
	"strconv"

	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
)

// pinSlot identifies one destination a driver can be assigned to: either a
// (gate, pin) or a (top-level output port, bit).
type pinSlot struct {
	owner string // gate name, or output port name
	pin   string // "A"/"B" for a gate, "" for an output port bit
	bit   uint
}

// Analyze assigns lanes and resolves every connection in a Base-form
// netlist, reporting driver-uniqueness and input-completeness problems
// through bag rather than stopping at the first one.
func Analyze(n *base.Netlist, bag *diag.Bag) (*Result, error) {
	allocs := map[SignalKind]*laneAllocator{
		SignalInput: newLaneAllocator(SignalInput),
		SignalAND:   newLaneAllocator(SignalAND),
		SignalOR:    newLaneAllocator(SignalOR),
		SignalXOR:   newLaneAllocator(SignalXOR),
		SignalNOT:   newLaneAllocator(SignalNOT),
		SignalVCC:   newLaneAllocator(SignalVCC),
		SignalGND:   newLaneAllocator(SignalGND),
	}

	inputLane := make(map[string][]Lane, len(n.Inputs))
	for _, p := range n.Inputs {
		lanes := make([]Lane, p.Width)
		for b := uint(0); b < p.Width; b++ {
			lanes[b] = allocs[SignalInput].alloc()
		}

		inputLane[p.Name] = lanes
	}

	gateLane := make(map[string]Lane, len(n.Gates))
	for _, g := range n.Gates {
		gateLane[g.Name] = allocs[signalKindOf(g.Kind)].alloc()
	}

	driverFirst := make(map[pinSlot]base.Endpoint)
	driverSeen := make(map[pinSlot][]diag.Span)

	for _, conn := range n.Connections {
		slot, ok := destSlot(conn.Destination)
		if !ok {
			continue
		}

		driverSeen[slot] = append(driverSeen[slot], conn.Span)
		if _, exists := driverFirst[slot]; !exists {
			driverFirst[slot] = conn.Source
		}
	}

	for slot, spans := range driverSeen {
		if len(spans) <= 1 {
			continue
		}

		d := diag.New(diag.MultiDriver, spans[0], "%s driven by %d connections", slotDescription(slot), len(spans))
		bag.Add(d.WithSecondary(spans[1:]...))
	}

	resolve := func(ep base.Endpoint) (Lane, bool) {
		switch ep.Kind {
		case base.PortEnd:
			lanes, ok := inputLane[ep.Port]
			if !ok || ep.Bit >= uint(len(lanes)) {
				return Lane{}, false
			}

			return lanes[ep.Bit], true
		case base.InstanceEnd:
			l, ok := gateLane[ep.Instance]
			return l, ok
		default:
			return Lane{}, false
		}
	}

	gates := make([]GateInfo, 0, len(n.Gates))
	gateByName := make(map[string]*GateInfo, len(n.Gates))

	for _, g := range n.Gates {
		info := GateInfo{Name: g.Name, Kind: g.Kind, Output: gateLane[g.Name], Inputs: map[string]Lane{}, Span: g.Span}

		for _, pin := range g.Kind.InputPins() {
			slot := pinSlot{owner: g.Name, pin: pin}

			src, ok := driverFirst[slot]
			if !ok {
				bag.Add(diag.New(diag.MissingDriver, g.Span, "%s has no driver", slotDescription(slot)))
				continue
			}

			lane, ok := resolve(src)
			if !ok {
				bag.Add(diag.New(diag.MissingDriver, g.Span, "%s driver does not resolve to a known signal", slotDescription(slot)))
				continue
			}

			info.Inputs[pin] = lane
		}

		gates = append(gates, info)
		gateByName[g.Name] = &gates[len(gates)-1]
	}

	var outputs []OutputBit

	for _, p := range n.Outputs {
		for b := uint(0); b < p.Width; b++ {
			slot := pinSlot{owner: p.Name, bit: b}

			src, ok := driverFirst[slot]
			if !ok {
				bag.Add(diag.New(diag.MissingDriver, diag.NoSpan, "%s has no driver", slotDescription(slot)))
				continue
			}

			lane, ok := resolve(src)
			if !ok {
				bag.Add(diag.New(diag.MissingDriver, diag.NoSpan, "%s driver does not resolve to a known signal", slotDescription(slot)))
				continue
			}

			outputs = append(outputs, OutputBit{Port: p.Name, Bit: b, Source: lane})
		}
	}

	chunkCounts := make(map[SignalKind]uint, len(allocs))
	for kind, a := range allocs {
		chunkCounts[kind] = a.chunkCount()
	}

	return &Result{
		Netlist:     n,
		Gates:       gates,
		GateByName:  gateByName,
		InputLane:   inputLane,
		Outputs:     outputs,
		ChunkCounts: chunkCounts,
		Warnings:    bag.All(),
	}, nil
}

func destSlot(ep base.Endpoint) (pinSlot, bool) {
	switch ep.Kind {
	case base.InstanceEnd:
		return pinSlot{owner: ep.Instance, pin: ep.Pin}, true
	case base.PortEnd:
		return pinSlot{owner: ep.Port, bit: ep.Bit}, true
	default:
		return pinSlot{}, false
	}
}

func slotDescription(s pinSlot) string {
	if s.pin != "" {
		return "gate " + s.owner + " input " + s.pin
	}

	return "output port " + s.owner + " bit " + strconv.FormatUint(uint64(s.bit), 10)
}
