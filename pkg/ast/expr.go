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

import "fmt"

// Expr is an arithmetic expression appearing in an index position or inside
// a '{...}' template segment.  Evaluated against a generator's substitution
// environment during Phase 1 (generator expansion); by the time Phase 2
// runs, no Expr other than a bare Number should remain.
type Expr interface {
	exprNode()
}

// Number is an integer literal.
type Number struct {
	Value int64
}

func (Number) exprNode() {}

// Var references a generator loop variable by name.
type Var struct {
	Name string
}

func (Var) exprNode() {}

// Binary is a two-operand arithmetic expression; Op is one of '+','-','*','/'.
type Binary struct {
	Op   byte
	L, R Expr
}

func (Binary) exprNode() {}

// Template is a name built from literal text interleaved with '{expr}'
// substitutions: an instance name, a signal owner, or a signal/port name.
// A Template with a single Literal-only segment and no Exprs is just a
// plain identifier.
type Template struct {
	Segments []Segment
}

// Segment is either literal text or a braced expression to substitute.
type Segment struct {
	Literal string // valid when Expr == nil
	Expr    Expr   // valid when non-nil; result is substituted as decimal text
}

// Plain constructs a Template that is just a literal identifier, with no
// substitution.
func Plain(name string) Template {
	return Template{Segments: []Segment{{Literal: name}}}
}

// IsPlain reports whether the template has no '{expr}' substitutions.
func (t Template) IsPlain() bool {
	for _, s := range t.Segments {
		if s.Expr != nil {
			return false
		}
	}

	return true
}

// String renders a plain template as its literal text. Panics if the
// template still carries unresolved expressions; callers must only call
// this after Phase 1 generator expansion.
func (t Template) String() string {
	if !t.IsPlain() {
		panic(fmt.Sprintf("ast: Template.String() called before substitution: %+v", t.Segments))
	}

	out := ""
	for _, s := range t.Segments {
		out += s.Literal
	}

	return out
}
