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

// Range is a closed, 1-based integer range: '[N]' means 1..N, '[a:b]' means
// a..b.  Lo is nil for the '[N]' form (implicitly 1).
type Range struct {
	Lo, Hi Expr
}

// Generator is a textual loop: for each value of Var across Range, a deep
// copy of Body is emitted with the substitution environment extended by
// Var -> value.  A Generator can appear both among a component's
// declarations and inside a connect-block, so it implements both Decl and
// Stmt; Phase 1 expands every Generator away before later phases run.
type Generator struct {
	Var   string
	Range Range
	// Body holds the declarations (when this Generator sits in a decls
	// list) and/or connections (when it sits in a connect-block) found in
	// its body, plus any nested generators.
	Decls   []Decl
	Connect []Stmt
	Span    diag.Span
}

func (*Generator) declNode() {}
func (*Generator) stmtNode() {}
