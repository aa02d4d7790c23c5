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

// Package flatten implements the four-phase lowering from Expanded to Base
// form: generator expansion, slice expansion, constant materialization, and
// hierarchy inlining, run in that fixed order, each phase consuming the
// previous phase's tree and producing a new one.
package flatten

import (
	"fmt"
	"strconv"

	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
)

// env is a generator substitution environment: a stack of variable ->
// integer bindings, threaded by value through recursive expansion.
type env map[string]int64

func (e env) extend(name string, value int64) env {
	next := make(env, len(e)+1)
	for k, v := range e {
		next[k] = v
	}

	next[name] = value

	return next
}

// evalExpr evaluates an arithmetic expression against the current
// substitution environment using standard integer +, -, *, / with
// truncating division.
func evalExpr(e ast.Expr, env env, span diag.Span) (int64, error) {
	switch n := e.(type) {
	case ast.Number:
		return n.Value, nil
	case ast.Var:
		v, ok := env[n.Name]
		if !ok {
			return 0, diag.New(diag.ParseSyntax, span, "undefined generator variable %q", n.Name)
		}

		return v, nil
	case ast.Binary:
		l, err := evalExpr(n.L, env, span)
		if err != nil {
			return 0, err
		}

		r, err := evalExpr(n.R, env, span)
		if err != nil {
			return 0, err
		}

		switch n.Op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			if r == 0 {
				return 0, diag.New(diag.ParseSyntax, span, "division by zero in generator expression")
			}

			return l / r, nil
		default:
			return 0, fmt.Errorf("flatten: unknown operator %q", n.Op)
		}
	default:
		return 0, fmt.Errorf("flatten: unknown expression node %T", e)
	}
}

// substTemplate renders a Template to a plain string by evaluating every
// '{expr}' segment against env and splicing in its decimal value.
func substTemplate(t ast.Template, e env, span diag.Span) (string, error) {
	out := ""

	for _, seg := range t.Segments {
		if seg.Expr == nil {
			out += seg.Literal
			continue
		}

		v, err := evalExpr(seg.Expr, e, span)
		if err != nil {
			return "", err
		}

		out += strconv.FormatInt(v, 10)
	}

	return out, nil
}
