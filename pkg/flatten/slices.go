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
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/library"
)

// expandSlices runs Phase 2 over an already generator-expanded component:
// every sliced or bare-vector connection becomes a sequence of single-bit
// connections. Constants are carried through untouched (Phase 3 handles
// them) and instances are carried through with Kind/Ref unchanged (Phase 4
// handles inlining).
func expandSlices(e *Expanded, lib *library.Library) (*Netlist, []ast.Constant, error) {
	instByName := make(map[string]ast.Instance, len(e.Instances))
	for _, inst := range e.Instances {
		instByName[inst.Name] = inst
	}

	constByName := make(map[string]ast.Constant, len(e.Constants))
	for _, c := range e.Constants {
		constByName[c.Name] = c
	}

	gates := make([]Gate, 0, len(e.Instances))
	for _, inst := range e.Instances {
		gates = append(gates, Gate{Name: inst.Name, Kind: inst.Kind, Ref: inst.Ref, Span: inst.Span})
	}

	ctx := &sliceContext{expanded: e, instByName: instByName, constByName: constByName, lib: lib}

	var conns []Connection

	for _, rc := range e.Connections {
		srcWidth, srcKind, err := ctx.endpointWidth(rc.Source)
		if err != nil {
			return nil, nil, err
		}

		dstWidth, dstKind, err := ctx.endpointWidth(rc.Destination)
		if err != nil {
			return nil, nil, err
		}

		if dstKind == ConstantEndpoint {
			return nil, nil, diag.New(diag.WidthMismatch, rc.Span, "cannot drive constant %q", rc.Destination.Name)
		}

		srcBits, err := resolveBitRange(rc.Source, srcWidth)
		if err != nil {
			return nil, nil, err
		}

		dstBits, err := resolveBitRange(rc.Destination, dstWidth)
		if err != nil {
			return nil, nil, err
		}

		if len(srcBits) != len(dstBits) {
			return nil, nil, diag.New(diag.WidthMismatch, rc.Span,
				"connection width mismatch: source has %d bit(s), destination has %d bit(s)",
				len(srcBits), len(dstBits))
		}

		for i := range srcBits {
			conns = append(conns, Connection{
				Source:      toEndpoint(rc.Source, srcKind, srcBits[i]),
				Destination: toEndpoint(rc.Destination, dstKind, dstBits[i]),
				Span:        rc.Span,
			})
		}
	}

	return &Netlist{
		Name:        e.Name,
		Inputs:      e.Inputs,
		Outputs:     e.Outputs,
		Gates:       gates,
		Connections: conns,
	}, e.Constants, nil
}

type sliceContext struct {
	expanded    *Expanded
	instByName  map[string]ast.Instance
	constByName map[string]ast.Constant
	lib         *library.Library
}

func toEndpoint(sig ResolvedSignal, kind EndpointKind, bit0 uint) Endpoint {
	if kind == InstanceEndpoint {
		return Endpoint{Kind: InstanceEndpoint, Name: sig.Owner, Pin: sig.Name, Bit: bit0}
	}

	return Endpoint{Kind: kind, Name: sig.Name, Bit: bit0}
}

// constantWidth returns a constant's width: the explicit one if given,
// otherwise the minimum number of bits needed to represent Value (at
// least 1).
func constantWidth(c ast.Constant) uint {
	if c.WidthSet {
		return c.Width
	}

	w := uint(1)
	for v := c.Value >> 1; v != 0; v >>= 1 {
		w++
	}

	return w
}

// endpointWidth determines the full width of the underlying port, instance
// pin, or constant a signal references, ignoring any index/slice on the
// signal itself, and which kind of endpoint it resolved to.
func (ctx *sliceContext) endpointWidth(sig ResolvedSignal) (uint, EndpointKind, error) {
	if sig.Owner == "" {
		e := ctx.expanded

		for _, p := range e.Inputs {
			if p.Name == sig.Name {
				return p.Width, PortEndpoint, nil
			}
		}

		for _, p := range e.Outputs {
			if p.Name == sig.Name {
				return p.Width, PortEndpoint, nil
			}
		}

		if c, ok := ctx.constByName[sig.Name]; ok {
			return constantWidth(c), ConstantEndpoint, nil
		}

		return 0, 0, diag.New(diag.UnknownComponent, sig.Span, "unknown signal %q", sig.Name).
			WithSuggestions(diag.Suggest(sig.Name, ctx.knownNames(), 3)...)
	}

	inst, ok := ctx.instByName[sig.Owner]
	if !ok {
		return 0, 0, diag.New(diag.UnknownComponent, sig.Span, "unknown instance %q", sig.Owner)
	}

	if inst.Kind.IsPrimitive() {
		return 1, InstanceEndpoint, nil
	}

	child, ok := ctx.lib.Lookup(inst.Ref)
	if !ok {
		return 0, 0, diag.New(diag.UnknownComponent, sig.Span, "unknown component %q", inst.Ref).
			WithSuggestions(diag.Suggest(inst.Ref, ctx.lib.Names(), 3)...)
	}

	if w, ok := child.InputWidth(sig.Name); ok {
		return w, InstanceEndpoint, nil
	}

	if w, ok := child.OutputWidth(sig.Name); ok {
		return w, InstanceEndpoint, nil
	}

	return 0, 0, diag.New(diag.UnknownComponent, sig.Span, "component %q has no port %q", inst.Ref, sig.Name)
}

func (ctx *sliceContext) knownNames() []string {
	names := portNames(ctx.expanded)
	for n := range ctx.constByName {
		names = append(names, n)
	}

	return names
}

func portNames(e *Expanded) []string {
	names := make([]string, 0, len(e.Inputs)+len(e.Outputs))
	for _, p := range e.Inputs {
		names = append(names, p.Name)
	}

	for _, p := range e.Outputs {
		names = append(names, p.Name)
	}

	return names
}

// resolveBitRange turns a signal's (possibly absent, possibly open-ended)
// index into a concrete, ascending sequence of 1-based bit positions
// within a port/pin of the given full width.
func resolveBitRange(sig ResolvedSignal, width uint) ([]uint, error) {
	lo, hi := uint(1), width

	if sig.Index.Present {
		if sig.Index.Lo != nil {
			lo = uint(*sig.Index.Lo)
		}

		if sig.Index.Hi != nil {
			hi = uint(*sig.Index.Hi)
		}

		if !sig.Index.Slice {
			hi = lo
		}
	}

	if lo < 1 || hi > width || lo > hi {
		return nil, diag.New(diag.SliceOutOfRange, sig.Span,
			"slice [%d:%d] out of range for %d-bit signal %q", lo, hi, width, sig.Name)
	}

	bits := make([]uint, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		bits = append(bits, b-1) // convert to 0-based
	}

	return bits, nil
}
