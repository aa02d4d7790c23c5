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
)

// EndpointKind distinguishes the three shapes an intermediate-form
// endpoint can take. ConstantEndpoint only ever appears as a connection
// Source and is eliminated entirely by Phase 3.
type EndpointKind int

// The three endpoint shapes.
const (
	PortEndpoint EndpointKind = iota
	InstanceEndpoint
	ConstantEndpoint
)

// Endpoint is a single-bit connection endpoint in the intermediate form
// used between phases 2 and 4. Unlike base.Endpoint, Bit is meaningful
// even for an instance endpoint, because before Phase 4 inlining an
// instance may still reference a user component with vector ports.
type Endpoint struct {
	Kind EndpointKind
	Name string // component port name, instance name, or constant name
	Pin  string // instance port/pin name; "" unless Kind == InstanceEndpoint
	Bit  uint   // 0-based bit within Name (port/constant) or Pin (instance port)
}

// Connection is a fully single-bit, directed wire in the intermediate form.
type Connection struct {
	Source      Endpoint
	Destination Endpoint
	Span        diag.Span
}

// Gate is an instance in the intermediate form: Ref is set exactly when
// Kind is ast.PrimitiveNone, i.e. this instance still needs recursive
// inlining in Phase 4.
type Gate struct {
	Name string
	Kind ast.Kind
	Ref  string
	Span diag.Span
}

// Netlist is the intermediate, per-component lowering result threaded
// through phases 2-4. Phase 4 recursively eliminates every non-primitive
// Gate until only primitives remain, at which point it becomes a
// base.Netlist.
type Netlist struct {
	Name        string
	Inputs      []ast.Port
	Outputs     []ast.Port
	Gates       []Gate
	Connections []Connection
}
