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
	"github.com/hdlforge/shdl/pkg/base"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/library"
)

// inliner recursively lowers a named component all the way to primitives,
// memoizing each component's flattened Netlist so a component used by many
// instances is only flattened once. active tracks the component names
// currently being expanded on the call stack, to detect recursive
// definitions.
type inliner struct {
	lib    *library.Library
	bag    *diag.Bag
	cache  map[string]*Netlist
	active map[string]bool
}

// Flatten lowers the named top-level component through all four phases and
// returns the resulting all-primitive netlist.
func Flatten(top string, lib *library.Library, bag *diag.Bag) (*base.Netlist, error) {
	in := &inliner{lib: lib, bag: bag, cache: map[string]*Netlist{}, active: map[string]bool{}}

	n, err := in.flattenComponent(top, diag.NoSpan)
	if err != nil {
		return nil, err
	}

	return toBase(n), nil
}

// flattenComponent runs phases 1-4 for a single named component, inlining
// every instance of a non-primitive kind along the way.
func (in *inliner) flattenComponent(name string, refSpan diag.Span) (*Netlist, error) {
	if cached, ok := in.cache[name]; ok {
		return cached, nil
	}

	if in.active[name] {
		return nil, diag.New(diag.RecursiveComponent, refSpan, "component %q is recursively defined", name)
	}

	c, ok := in.lib.Lookup(name)
	if !ok {
		return nil, diag.New(diag.UnknownComponent, refSpan, "unknown component %q", name)
	}

	in.active[name] = true
	defer delete(in.active, name)

	expanded, err := expandGenerators(c)
	if err != nil {
		return nil, err
	}

	sliced, constants, err := expandSlices(expanded, in.lib)
	if err != nil {
		return nil, err
	}

	materialized := materializeConstants(sliced, constants, in.bag)

	inlined, err := in.inlineInstances(materialized)
	if err != nil {
		return nil, err
	}

	in.cache[name] = inlined

	return inlined, nil
}

// pinKey identifies one bit of one named pin, scoped to whichever instance
// a caller is currently working with.
type pinKey struct {
	pin string
	bit uint
}

// instancePin identifies a connection endpoint addressing one bit of one
// instance's pin.
type instancePin struct {
	inst string
	pinKey
}

// inlineInstances replaces every non-primitive Gate in n with its flattened
// body's primitive gates, renamed under an "<instance>_" prefix, and
// rewires every connection that crossed the inlined instance's boundary
// directly to the instance's internal driver or consumer — without
// inserting a gate for the boundary itself, so a wire-through chain never
// grows an extra gate per level of hierarchy it passes through.
func (in *inliner) inlineInstances(n *Netlist) (*Netlist, error) {
	var primGates []Gate

	children := map[string]*Netlist{}

	for _, g := range n.Gates {
		if g.Kind.IsPrimitive() {
			primGates = append(primGates, g)
			continue
		}

		child, err := in.flattenComponent(g.Ref, g.Span)
		if err != nil {
			return nil, err
		}

		children[g.Name] = child

		for _, cg := range child.Gates {
			primGates = append(primGates, Gate{Name: prefixed(g.Name, cg.Name), Kind: cg.Kind, Span: cg.Span})
		}
	}

	if len(children) == 0 {
		return n, nil
	}

	// inputDriver[instance][pin,bit] is the endpoint, in n's own namespace,
	// that drives that instance input bit from outside.
	inputDriver := make(map[string]map[pinKey]Endpoint, len(children))
	for name := range children {
		inputDriver[name] = map[pinKey]Endpoint{}
	}

	var boundary []Connection // connections not touching any inlined instance

	for _, conn := range n.Connections {
		if ip, ok := asInstancePin(conn.Destination, children); ok {
			inputDriver[ip.inst][ip.pinKey] = conn.Source
			continue
		}

		boundary = append(boundary, conn)
	}

	// outputDriver[instance][pin,bit] is the endpoint, in n's namespace,
	// that bit of that instance's output pin actually resolves to.
	outputDriver := make(map[string]map[pinKey]Endpoint, len(children))

	var internal []Connection

	for instName, child := range children {
		outputDriver[instName] = map[pinKey]Endpoint{}

		for _, cc := range child.Connections {
			if pin, ok := portPin(cc.Destination); ok {
				outputDriver[instName][pin] = in.resolveChildSource(cc.Source, instName, inputDriver[instName], cc.Span)
				continue
			}

			src := cc.Source
			if _, ok := portPin(src); ok {
				src = in.resolveChildSource(src, instName, inputDriver[instName], cc.Span)
			} else {
				src = rebase(src, instName)
			}

			internal = append(internal, Connection{Source: src, Destination: rebase(cc.Destination, instName), Span: cc.Span})
		}
	}

	final := make([]Connection, 0, len(boundary)+len(internal))

	for _, conn := range boundary {
		if ip, ok := asInstancePin(conn.Source, children); ok {
			driven, ok := outputDriver[ip.inst][ip.pinKey]
			if !ok {
				in.bag.Addf(diag.UnconnectedOutput, conn.Span, "instance %q port %q bit %d is never driven", ip.inst, ip.pin, ip.bit)
				continue
			}

			final = append(final, Connection{Source: driven, Destination: conn.Destination, Span: conn.Span})

			continue
		}

		final = append(final, conn)
	}

	final = append(final, internal...)

	// A source taken from inputDriver can name a sibling instance's output
	// pin; chase each such source to the driver behind that pin.
	for i := range final {
		seen := map[instancePin]bool{}
		for ip, ok := asInstancePin(final[i].Source, children); ok && !seen[ip]; ip, ok = asInstancePin(final[i].Source, children) {
			driven, found := outputDriver[ip.inst][ip.pinKey]
			if !found {
				break
			}

			seen[ip] = true
			final[i].Source = driven
		}
	}

	return &Netlist{Name: n.Name, Inputs: n.Inputs, Outputs: n.Outputs, Gates: primGates, Connections: final}, nil
}

// resolveChildSource rewrites a connection source found inside an inlined
// child's own connection list into the parent's namespace: an instance
// endpoint is simply reprefixed, while a reference to the child's own input
// port is replaced by whatever actually drives that input from outside,
// continuing a wire-through chain without adding a gate for it.
func (in *inliner) resolveChildSource(ep Endpoint, instName string, inputDriver map[pinKey]Endpoint, span diag.Span) Endpoint {
	if pin, ok := portPin(ep); ok {
		driven, ok := inputDriver[pin]
		if !ok {
			in.bag.Addf(diag.MissingDriver, span, "instance %q input %q bit %d has no driver", instName, pin.pin, pin.bit)
			return ep
		}

		return driven
	}

	return rebase(ep, instName)
}

// asInstancePin reports whether ep addresses a pin of one of the given
// inlined instances.
func asInstancePin(ep Endpoint, children map[string]*Netlist) (instancePin, bool) {
	if ep.Kind != InstanceEndpoint {
		return instancePin{}, false
	}

	if _, ok := children[ep.Name]; !ok {
		return instancePin{}, false
	}

	return instancePin{inst: ep.Name, pinKey: pinKey{pin: ep.Pin, bit: ep.Bit}}, true
}

// portPin reports whether ep addresses one of the enclosing component's own
// boundary ports (as opposed to a sub-instance's pin).
func portPin(ep Endpoint) (pinKey, bool) {
	if ep.Kind == PortEndpoint {
		return pinKey{pin: ep.Name, bit: ep.Bit}, true
	}

	return pinKey{}, false
}

func prefixed(instance, name string) string {
	return instance + "_" + name
}

// rebase renames a child-internal instance endpoint under its instance's
// prefix. Callers only pass InstanceEndpoint values here; PortEndpoint
// values are resolved via resolveChildSource instead.
func rebase(ep Endpoint, instance string) Endpoint {
	return Endpoint{Kind: InstanceEndpoint, Name: prefixed(instance, ep.Name), Pin: ep.Pin, Bit: ep.Bit}
}

func toBase(n *Netlist) *base.Netlist {
	gates := make([]base.Gate, 0, len(n.Gates))
	for _, g := range n.Gates {
		gates = append(gates, base.Gate{Name: g.Name, Kind: g.Kind, Span: g.Span})
	}

	conns := make([]base.Connection, 0, len(n.Connections))
	for _, c := range n.Connections {
		conns = append(conns, base.Connection{
			Source:      toBaseEndpoint(c.Source),
			Destination: toBaseEndpoint(c.Destination),
			Span:        c.Span,
		})
	}

	return &base.Netlist{Name: n.Name, Inputs: n.Inputs, Outputs: n.Outputs, Gates: gates, Connections: conns}
}

func toBaseEndpoint(e Endpoint) base.Endpoint {
	if e.Kind == InstanceEndpoint {
		return base.Endpoint{Kind: base.InstanceEnd, Instance: e.Name, Pin: e.Pin}
	}

	return base.Endpoint{Kind: base.PortEnd, Port: e.Name, Bit: e.Bit}
}
