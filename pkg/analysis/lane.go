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

// Package analysis assigns every single-bit signal in a Base-form netlist
// to a (kind, chunk, lane) slot in a packed bit-sliced representation,
// resolves every connection to the lane it reads from, and validates
// driver uniqueness and input completeness before a netlist is handed to
// the simulator. It plays the same role here that register allocation
// plays in a conventional backend: taking an unordered graph of values and
// packing them into a small number of fixed-width machine words.
//
// Signals are partitioned by SignalKind before being packed into chunks, so
// that every bit of a chunk shares one gate kind: the simulator can then
// compute an entire chunk's next value with a single 64-wide bitwise
// instruction instead of one branch per gate.
package analysis

import "github.com/hdlforge/shdl/pkg/ast"

// LaneWidth is the number of gates packed into one chunk word.
const LaneWidth = 64

// SignalKind partitions the lane space. SignalInput holds top-level input
// port bits, which have no gate kind of their own; the other five mirror
// ast.Kind's primitive gates.
type SignalKind int

// The lane-space partitions.
const (
	SignalInput SignalKind = iota
	SignalAND
	SignalOR
	SignalXOR
	SignalNOT
	SignalVCC
	SignalGND
)

// signalKindOf maps a gate's primitive kind to its lane partition.
func signalKindOf(k ast.Kind) SignalKind {
	switch k {
	case ast.AND:
		return SignalAND
	case ast.OR:
		return SignalOR
	case ast.XOR:
		return SignalXOR
	case ast.NOT:
		return SignalNOT
	case ast.VCC:
		return SignalVCC
	case ast.GND:
		return SignalGND
	default:
		panic("analysis: not a primitive gate kind: " + string(k))
	}
}

// Lane addresses a single signal's slot: which partition it lives in, which
// chunk within that partition, and which of the LaneWidth bits of that
// chunk's word it occupies.
type Lane struct {
	Kind  SignalKind
	Chunk uint
	Bit   uint
}

// laneAllocator hands out Lanes within one SignalKind partition, in the
// order signals are first seen, packing LaneWidth of them into each chunk
// before starting the next.
type laneAllocator struct {
	kind SignalKind
	next uint
}

func newLaneAllocator(kind SignalKind) *laneAllocator {
	return &laneAllocator{kind: kind}
}

func (a *laneAllocator) alloc() Lane {
	l := Lane{Kind: a.kind, Chunk: a.next / LaneWidth, Bit: a.next % LaneWidth}
	a.next++

	return l
}

// chunkCount reports how many chunks were needed to hold every lane
// allocated from this partition.
func (a *laneAllocator) chunkCount() uint {
	if a.next == 0 {
		return 0
	}

	return (a.next-1)/LaneWidth + 1
}
