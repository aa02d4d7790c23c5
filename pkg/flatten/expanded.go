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

// ResolvedIndex is a bit index or slice with every expression already
// evaluated to a concrete integer. Lo/Hi are nil for an open-ended slice
// bound ('[:b]' or '[a:]'); both are nil and Slice/Present are false for a
// bare (unindexed) reference.
type ResolvedIndex struct {
	Present bool
	Slice   bool
	Lo, Hi  *int64
}

// ResolvedSignal is a connection endpoint after Phase 1: Owner is "" for a
// bare component port, otherwise the instance name.
type ResolvedSignal struct {
	Owner string
	Name  string
	Index ResolvedIndex
	Span  diag.Span
}

// ResolvedConnection is a Phase-1 connection: names and indices are fully
// resolved, but slices (if any) have not yet been expanded to single bits
// — that is Phase 2's job.
type ResolvedConnection struct {
	Source      ResolvedSignal
	Destination ResolvedSignal
	Span        diag.Span
}

// Expanded is the output of Phase 1: a component with every generator
// expanded away. Instance/constant names are plain strings and connections
// reference them directly, but constants are not yet materialized into
// gates and slices are not yet expanded to single bits.
type Expanded struct {
	Name        string
	Inputs      []ast.Port
	Outputs     []ast.Port
	Instances   []ast.Instance
	Constants   []ast.Constant
	Connections []ResolvedConnection
}
