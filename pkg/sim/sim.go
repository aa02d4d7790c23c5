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

// Package sim runs a Base-form, analyzed netlist forward one delta-cycle at
// a time. Every gate kind is bit-packed: up to analysis.LaneWidth gates of
// the same kind share one 64-bit machine word, and a whole chunk's worth of
// gates is evaluated with a single bitwise instruction per Step call. A
// Simulator exposes exactly the host-facing operations a caller needs to
// drive a circuit: Reset, Poke, Step, Peek.
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
)

// chunkGates indexes, within one (kind, chunk) pair, which gate (if any)
// occupies each of the LaneWidth bit positions.
type chunkGates [analysis.LaneWidth]*analysis.GateInfo

// Simulator holds the double-buffered, packed state of one netlist
// instance. cur is read by Peek and by the gather phase of Step; next is
// written during Step and then swapped into cur, so every gate's inputs
// within a single Step always observe the previous cycle's values,
// regardless of gate evaluation order.
type Simulator struct {
	result *analysis.Result
	log    logrus.FieldLogger

	// Debug gates PeekGate: internal-gate introspection is off by default
	// so a host can't come to depend on gate names that are an
	// implementation detail of one particular compile.
	Debug bool

	cur  map[analysis.SignalKind][]uint64
	next map[analysis.SignalKind][]uint64

	activeMask map[analysis.SignalKind][]uint64
	gates      map[analysis.SignalKind][]chunkGates
}

// New builds a Simulator from an analyzed netlist and resets it.
func New(result *analysis.Result) *Simulator {
	s := &Simulator{
		result:     result,
		log:        logrus.StandardLogger(),
		cur:        map[analysis.SignalKind][]uint64{},
		next:       map[analysis.SignalKind][]uint64{},
		activeMask: map[analysis.SignalKind][]uint64{},
		gates:      map[analysis.SignalKind][]chunkGates{},
	}

	for kind, count := range result.ChunkCounts {
		s.cur[kind] = make([]uint64, count)
		s.next[kind] = make([]uint64, count)
		s.activeMask[kind] = make([]uint64, count)
		s.gates[kind] = make([]chunkGates, count)
	}

	for i := range result.Gates {
		g := &result.Gates[i]
		lane := g.Output
		s.gates[lane.Kind][lane.Chunk][lane.Bit] = g
		s.activeMask[lane.Kind][lane.Chunk] |= 1 << lane.Bit
	}

	s.Reset()

	return s
}

// Reset clears every input and computed gate to zero and re-derives the
// constant partitions, which a gate-level netlist never recomputes once
// set: GND is always all-zero, VCC is one bit set per live gate in that
// chunk.
func (s *Simulator) Reset() {
	for kind := range s.cur {
		for i := range s.cur[kind] {
			s.cur[kind][i] = 0
			s.next[kind][i] = 0
		}
	}

	for i, mask := range s.activeMask[analysis.SignalVCC] {
		s.cur[analysis.SignalVCC][i] = mask
	}
}

// Poke sets the value of a top-level input port, bit 0 (the port's LSB) in
// the least-significant bit of value. The new value is visible to gates
// starting with the next Step call. An unknown port is never fatal: it is
// logged as an UnknownSignal diagnostic and reported to the caller as an
// error, with nothing stored.
func (s *Simulator) Poke(port string, value uint64) error {
	lanes, ok := s.result.InputLane[port]
	if !ok {
		return s.unknownSignal("poke", port)
	}

	for i, lane := range lanes {
		bit := (value >> uint(i)) & 1
		s.cur[lane.Kind][lane.Chunk] &^= 1 << lane.Bit
		s.cur[lane.Kind][lane.Chunk] |= bit << lane.Bit
	}

	return nil
}

// Peek reads the current value of a named signal. Input ports return their
// stored value directly; output ports are reconstructed from the lanes that
// drive them. A name that resolves to both an input and something else
// (e.g. a gate of the same name in debug tooling) is read as the input,
// predictably, per the source's own input-first tie-break; callers that
// need a shadowed gate's value instead use PeekGate. An unknown name is
// never fatal: it is logged as an UnknownSignal diagnostic and the sentinel
// 0 is returned alongside the error.
func (s *Simulator) Peek(name string) (uint64, error) {
	if lanes, ok := s.result.InputLane[name]; ok {
		var value uint64

		for i, lane := range lanes {
			value |= s.readBit(lane) << uint(i)
		}

		return value, nil
	}

	if _, ok := s.result.OutputWidth(name); ok {
		var value uint64

		for _, ob := range s.result.Outputs {
			if ob.Port != name {
				continue
			}

			value |= s.readBit(ob.Source) << ob.Bit
		}

		return value, nil
	}

	return 0, s.unknownSignal("peek", name)
}

// unknownSignal records an UnknownSignal diagnostic for a poke/peek name
// that resolves to neither an input nor an output port, logs it via the
// ambient logger, and returns it as the caller-facing error. A bad name
// never panics or aborts the host process; the caller gets a sentinel
// value and a diagnostic to act on.
func (s *Simulator) unknownSignal(op, name string) error {
	d := diag.New(diag.UnknownSignal, diag.NoSpan, "%s: unknown signal %q", op, name)
	s.log.WithField("op", op).Warn(d.Error())

	return d
}

// PeekGate reads a single primitive gate's current output, for debug
// tooling (e.g. shdlc run --peek-gate) rather than the host API proper. It only
// works when Debug is set, since gate names are an implementation detail
// of one compile, not part of the stable host API.
func (s *Simulator) PeekGate(name string) (bool, error) {
	if !s.Debug {
		return false, fmt.Errorf("sim: PeekGate requires Debug mode")
	}

	g, ok := s.result.GateByName[name]
	if !ok {
		return false, fmt.Errorf("sim: unknown gate %q", name)
	}

	return s.readBit(g.Output) == 1, nil
}

// Step advances the simulation by n delta-cycles (n >= 0); a negative n is
// clamped to 0 rather than treated as an error, so a caller computing a
// settling depth can never panic it with an off-by-one. Each cycle runs to
// completion; there is no cancellation mid-Step.
func (s *Simulator) Step(n int) {
	if n < 0 {
		n = 0
	}

	for i := 0; i < n; i++ {
		s.step()
	}
}

// step evaluates every gate exactly once, reading only values as of the end
// of the previous step (or Reset), then commits the results: two phases,
// so feedback within a single delta-cycle never observes a gate's own
// freshly-computed value.
func (s *Simulator) step() {
	for kind, chunks := range s.gates {
		if kind == analysis.SignalInput || kind == analysis.SignalVCC || kind == analysis.SignalGND {
			continue
		}

		for chunkIdx, cg := range chunks {
			s.next[kind][chunkIdx] = s.evalChunk(kind, cg) & s.activeMask[kind][chunkIdx]
		}
	}

	for kind := range s.cur {
		if kind == analysis.SignalInput || kind == analysis.SignalVCC || kind == analysis.SignalGND {
			continue
		}

		s.cur[kind], s.next[kind] = s.next[kind], s.cur[kind]
	}
}

// evalChunk gathers the A (and, for binary kinds, B) operand of every gate
// in one chunk into a single word via branchless OR-accumulation, then
// evaluates the whole chunk's kind-specific boolean operation in one shot.
func (s *Simulator) evalChunk(kind analysis.SignalKind, cg chunkGates) uint64 {
	var a, b uint64

	for bit := uint(0); bit < analysis.LaneWidth; bit++ {
		g := cg[bit]
		if g == nil {
			continue
		}

		a |= s.readBit(g.Inputs["A"]) << bit

		if kind == analysis.SignalAND || kind == analysis.SignalOR || kind == analysis.SignalXOR {
			b |= s.readBit(g.Inputs["B"]) << bit
		}
	}

	switch kind {
	case analysis.SignalAND:
		return a & b
	case analysis.SignalOR:
		return a | b
	case analysis.SignalXOR:
		return a ^ b
	case analysis.SignalNOT:
		return ^a
	default:
		panic("sim: unexpected computed signal kind")
	}
}

func (s *Simulator) readBit(lane analysis.Lane) uint64 {
	return (s.cur[lane.Kind][lane.Chunk] >> lane.Bit) & 1
}

// KindName renders a SignalKind for diagnostics and debug sidecars.
func KindName(k analysis.SignalKind) string {
	switch k {
	case analysis.SignalInput:
		return "input"
	case analysis.SignalAND:
		return string(ast.AND)
	case analysis.SignalOR:
		return string(ast.OR)
	case analysis.SignalXOR:
		return string(ast.XOR)
	case analysis.SignalNOT:
		return string(ast.NOT)
	case analysis.SignalVCC:
		return string(ast.VCC)
	case analysis.SignalGND:
		return string(ast.GND)
	default:
		return "unknown"
	}
}
