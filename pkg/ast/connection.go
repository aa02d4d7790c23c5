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

package ast

import "github.com/hdlforge/shdl/pkg/diag"

// Index is an optional bit index or slice attached to a Signal. A bare
// signal reference (Present == false) means "the whole port/pin" and is
// widened to a full-width slice during Phase 2. An open-ended slice has
// Lo or Hi == nil, binding to the underlying port's bounds.
type Index struct {
	Present bool
	// Single index when Hi == nil and Lo != nil (and not a slice); a slice
	// [Lo:Hi] otherwise.  Slice is true whenever the source text used
	// 'a:b' notation, even when Lo or Hi is nil (open-ended).
	Slice  bool
	Lo, Hi Expr
}

// Signal is one endpoint of a Connection: either a bare component port
// (Owner empty) or an instance port ("instance.port"), optionally indexed.
type Signal struct {
	Owner Template // instance name; empty Segments when this is a component port
	Name  Template
	Index Index
	Span  diag.Span
}

// HasOwner reports whether this signal names an instance.port rather than a
// bare component port.
func (s Signal) HasOwner() bool {
	return len(s.Owner.Segments) > 0
}

// Stmt is one statement in a connect-block: either a single connection or a
// nested Generator (expanded away by Phase 1 before any other phase runs).
type Stmt interface {
	stmtNode()
}

// Connection is a directed `source -> destination` pair.
type Connection struct {
	Source      Signal
	Destination Signal
	Span        diag.Span
}

func (Connection) stmtNode() {}
