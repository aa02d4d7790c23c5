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

// expander carries the per-component state accumulated while expanding
// generators: the instances/constants/connections discovered so far, and
// the name sets used to reject collisions.
type expander struct {
	instances   []ast.Instance
	constants   []ast.Constant
	connections []ResolvedConnection

	instanceNames map[string]diag.Span
	constantNames map[string]diag.Span
}

// expandGenerators runs Phase 1 over a single component, returning a tree
// with every Generator expanded away.
func expandGenerators(c *ast.Component) (*Expanded, error) {
	ex := &expander{
		instanceNames: map[string]diag.Span{},
		constantNames: map[string]diag.Span{},
	}

	if err := ex.expandDecls(c.Decls, env{}); err != nil {
		return nil, err
	}

	if err := ex.expandConnect(c.Connect, env{}); err != nil {
		return nil, err
	}

	return &Expanded{
		Name:        c.Name,
		Inputs:      c.Inputs,
		Outputs:     c.Outputs,
		Instances:   ex.instances,
		Constants:   ex.constants,
		Connections: ex.connections,
	}, nil
}

func (ex *expander) expandDecls(decls []ast.Decl, e env) error {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.Instance:
			name, err := substTemplate(d.NameTemplate, e, d.Span)
			if err != nil {
				return err
			}

			if prev, ok := ex.instanceNames[name]; ok {
				return diag.New(diag.DuplicateName, d.Span, "instance %q already declared at %s", name, prev)
			}

			ex.instanceNames[name] = d.Span
			ex.instances = append(ex.instances, ast.Instance{Name: name, Kind: d.Kind, Ref: d.Ref, Span: d.Span})
		case *ast.Constant:
			if prev, ok := ex.constantNames[d.Name]; ok {
				return diag.New(diag.DuplicateName, d.Span, "constant %q already declared at %s", d.Name, prev)
			}

			ex.constantNames[d.Name] = d.Span
			ex.constants = append(ex.constants, *d)
		case *ast.Generator:
			if err := ex.expandGeneratorDecl(d, e); err != nil {
				return err
			}
		default:
			return diag.New(diag.ParseSyntax, diag.NoSpan, "unknown declaration node %T", d)
		}
	}

	return nil
}

func (ex *expander) expandGeneratorDecl(g *ast.Generator, e env) error {
	lo, hi, err := generatorBounds(g, e)
	if err != nil {
		return err
	}

	if _, shadow := e[g.Var]; shadow {
		return diag.New(diag.ShadowingGenerator, g.Span, "generator variable %q shadows an enclosing generator", g.Var)
	}

	if lo > hi {
		return diag.New(diag.EmptyGeneratorRange, g.Span, "generator range for %q is empty (%d:%d)", g.Var, lo, hi)
	}

	for v := lo; v <= hi; v++ {
		if err := ex.expandDecls(g.Decls, e.extend(g.Var, v)); err != nil {
			return err
		}
	}

	return nil
}

func (ex *expander) expandConnect(stmts []ast.Stmt, e env) error {
	for _, s := range stmts {
		switch s := s.(type) {
		case ast.Connection:
			src, err := resolveSignal(s.Source, e)
			if err != nil {
				return err
			}

			dst, err := resolveSignal(s.Destination, e)
			if err != nil {
				return err
			}

			ex.connections = append(ex.connections, ResolvedConnection{Source: src, Destination: dst, Span: s.Span})
		case *ast.Generator:
			if err := ex.expandGeneratorStmt(s, e); err != nil {
				return err
			}
		default:
			return diag.New(diag.ParseSyntax, diag.NoSpan, "unknown statement node %T", s)
		}
	}

	return nil
}

func (ex *expander) expandGeneratorStmt(g *ast.Generator, e env) error {
	lo, hi, err := generatorBounds(g, e)
	if err != nil {
		return err
	}

	if _, shadow := e[g.Var]; shadow {
		return diag.New(diag.ShadowingGenerator, g.Span, "generator variable %q shadows an enclosing generator", g.Var)
	}

	if lo > hi {
		return diag.New(diag.EmptyGeneratorRange, g.Span, "generator range for %q is empty (%d:%d)", g.Var, lo, hi)
	}

	for v := lo; v <= hi; v++ {
		if err := ex.expandConnect(g.Connect, e.extend(g.Var, v)); err != nil {
			return err
		}
	}

	return nil
}

func generatorBounds(g *ast.Generator, e env) (lo, hi int64, err error) {
	hi, err = evalExpr(g.Range.Hi, e, g.Span)
	if err != nil {
		return 0, 0, err
	}

	if g.Range.Lo == nil {
		return 1, hi, nil
	}

	lo, err = evalExpr(g.Range.Lo, e, g.Span)
	if err != nil {
		return 0, 0, err
	}

	return lo, hi, nil
}

func resolveSignal(sig ast.Signal, e env) (ResolvedSignal, error) {
	owner := ""

	if sig.HasOwner() {
		o, err := substTemplate(sig.Owner, e, sig.Span)
		if err != nil {
			return ResolvedSignal{}, err
		}

		owner = o
	}

	name, err := substTemplate(sig.Name, e, sig.Span)
	if err != nil {
		return ResolvedSignal{}, err
	}

	idx, err := resolveIndex(sig.Index, e, sig.Span)
	if err != nil {
		return ResolvedSignal{}, err
	}

	return ResolvedSignal{Owner: owner, Name: name, Index: idx, Span: sig.Span}, nil
}

func resolveIndex(idx ast.Index, e env, span diag.Span) (ResolvedIndex, error) {
	if !idx.Present {
		return ResolvedIndex{}, nil
	}

	out := ResolvedIndex{Present: true, Slice: idx.Slice}

	if idx.Lo != nil {
		v, err := evalExpr(idx.Lo, e, span)
		if err != nil {
			return ResolvedIndex{}, err
		}

		out.Lo = &v
	}

	if idx.Hi != nil {
		v, err := evalExpr(idx.Hi, e, span)
		if err != nil {
			return ResolvedIndex{}, err
		}

		out.Hi = &v
	}

	return out, nil
}
