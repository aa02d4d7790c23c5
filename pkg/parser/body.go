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

package parser

import (
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/lexer"
)

// parseBody parses a component's decls followed by an optional connect
// block.
func (p *Parser) parseBody() ([]ast.Decl, []ast.Stmt, error) {
	var decls []ast.Decl

	for !p.at(lexer.RBrace) && !p.at(lexer.KwConnect) {
		d, err := p.parseDecl()
		if err != nil {
			return nil, nil, err
		}

		decls = append(decls, d)
	}

	var connect []ast.Stmt

	if p.at(lexer.KwConnect) {
		p.advance()

		if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
			return nil, nil, err
		}

		for !p.at(lexer.RBrace) {
			s, err := p.parseStmt()
			if err != nil {
				return nil, nil, err
			}

			connect = append(connect, s)
		}

		p.advance() // '}'
	}

	return decls, connect, nil
}

// parseDecl parses one instance, constant, or generator declaration.
func (p *Parser) parseDecl() (ast.Decl, error) {
	if p.at(lexer.Gt) {
		return p.parseGenerator(true, false)
	}

	start := p.peek().Span

	tname, err := p.parseTemplate()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.Colon) {
		p.advance()

		kindTok, err := p.expect(lexer.Ident, "component/primitive kind")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.Semi, "';'"); err != nil {
			return nil, err
		}

		inst := &ast.Instance{Span: start, NameTemplate: tname}
		if tname.IsPlain() {
			inst.Name = tname.String()
		}

		if kind, ok := ast.LookupPrimitive(kindTok.Text); ok {
			inst.Kind = kind
		} else {
			inst.Kind = ast.PrimitiveNone
			inst.Ref = kindTok.Text
		}

		return inst, nil
	}

	// Constant: optional '[' width ']' then '=' value ';'
	width := uint(0)
	widthSet := false

	if p.at(lexer.LBracket) {
		p.advance()

		n, err := p.expect(lexer.Number, "constant width")
		if err != nil {
			return nil, err
		}

		width = uint(n.Value)
		widthSet = true

		if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Equals, "'='"); err != nil {
		return nil, err
	}

	val, err := p.expect(lexer.Number, "constant value")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semi, "';'"); err != nil {
		return nil, err
	}

	if !tname.IsPlain() {
		return nil, p.errf("constant name may not contain a generator substitution")
	}

	c := &ast.Constant{Name: tname.String(), Value: val.Value, Width: width, WidthSet: widthSet, Span: start}

	return c, nil
}

// parseGenerator parses '>' ident '[' range ']' '{' body '}'. The body may
// contain decls, connections, or both, matched against whichever context
// (decls or connect-block) the caller expects via wantDecls/wantConnect.
func (p *Parser) parseGenerator(wantDecls, wantConnect bool) (*ast.Generator, error) {
	start := p.peek().Span
	p.advance() // '>'

	v, err := p.expect(lexer.Ident, "generator variable")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBracket, "'['"); err != nil {
		return nil, err
	}

	lo, hi, err := p.parseRange()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}

	g := &ast.Generator{Var: v.Text, Range: ast.Range{Lo: lo, Hi: hi}, Span: start}

	for !p.at(lexer.RBrace) {
		if p.at(lexer.Gt) {
			inner, err := p.parseGenerator(wantDecls, wantConnect)
			if err != nil {
				return nil, err
			}

			if wantDecls {
				g.Decls = append(g.Decls, inner)
			} else {
				g.Connect = append(g.Connect, inner)
			}

			continue
		}

		if wantConnect {
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}

			g.Connect = append(g.Connect, s)

			continue
		}

		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}

		g.Decls = append(g.Decls, d)
	}

	p.advance() // '}'

	return g, nil
}

func (p *Parser) parseRange() (lo, hi ast.Expr, err error) {
	first, err := p.expect(lexer.Number, "range bound")
	if err != nil {
		return nil, nil, err
	}

	if p.at(lexer.Colon) {
		p.advance()

		second, err := p.expect(lexer.Number, "range bound")
		if err != nil {
			return nil, nil, err
		}

		return ast.Number{Value: int64(first.Value)}, ast.Number{Value: int64(second.Value)}, nil
	}

	return nil, ast.Number{Value: int64(first.Value)}, nil
}

// parseStmt parses a single 'source -> destination ;' connection, or a
// nested generator appearing inside a connect-block.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	if p.at(lexer.Gt) {
		return p.parseGenerator(false, true)
	}

	start := p.peek().Span

	src, err := p.parseSignal()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Arrow, "'->'"); err != nil {
		return nil, err
	}

	dst, err := p.parseSignal()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Semi, "';'"); err != nil {
		return nil, err
	}

	return ast.Connection{Source: src, Destination: dst, Span: start}, nil
}

// parseSignal parses `tname ('.' tname)? ('[' idxexpr ']')?`.
func (p *Parser) parseSignal() (ast.Signal, error) {
	start := p.peek().Span

	first, err := p.parseTemplate()
	if err != nil {
		return ast.Signal{}, err
	}

	sig := ast.Signal{Name: first, Span: start}

	if p.at(lexer.Dot) {
		p.advance()

		second, err := p.parseTemplate()
		if err != nil {
			return ast.Signal{}, err
		}

		sig.Owner = first
		sig.Name = second
	}

	if p.at(lexer.LBracket) {
		p.advance()

		idx, err := p.parseIndex()
		if err != nil {
			return ast.Signal{}, err
		}

		sig.Index = idx

		if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
			return ast.Signal{}, err
		}
	}

	return sig, nil
}

func (p *Parser) parseIndex() (ast.Index, error) {
	if p.at(lexer.Colon) {
		p.advance()

		hi, err := p.parseExpr()
		if err != nil {
			return ast.Index{}, err
		}

		return ast.Index{Present: true, Slice: true, Hi: hi}, nil
	}

	lo, err := p.parseExpr()
	if err != nil {
		return ast.Index{}, err
	}

	if p.at(lexer.Colon) {
		p.advance()

		if p.at(lexer.RBracket) {
			return ast.Index{Present: true, Slice: true, Lo: lo}, nil
		}

		hi, err := p.parseExpr()
		if err != nil {
			return ast.Index{}, err
		}

		return ast.Index{Present: true, Slice: true, Lo: lo, Hi: hi}, nil
	}

	return ast.Index{Present: true, Slice: false, Lo: lo}, nil
}
