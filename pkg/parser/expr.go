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

// parseTemplate parses a tname: one or more segments, each either a bare
// identifier (literal text) or a '{' expr '}' substitution.
func (p *Parser) parseTemplate() (ast.Template, error) {
	var segs []ast.Segment

	for {
		switch {
		case p.at(lexer.Ident):
			tok := p.advance()
			segs = append(segs, ast.Segment{Literal: tok.Text})
		case p.at(lexer.LBrace):
			p.advance()

			e, err := p.parseExpr()
			if err != nil {
				return ast.Template{}, err
			}

			if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
				return ast.Template{}, err
			}

			segs = append(segs, ast.Segment{Expr: e})
		default:
			if len(segs) == 0 {
				return ast.Template{}, p.errf("expected a name")
			}

			return ast.Template{Segments: segs}, nil
		}
	}
}

// parseExpr parses an arithmetic expression: '+'/'-' at lowest precedence,
// '*'/'/' higher, atoms are numbers, identifiers (generator variables), or
// a braced sub-expression.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAddSub()
}

func (p *Parser) parseAddSub() (ast.Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}

	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := byte('+')
		if p.at(lexer.Minus) {
			op = '-'
		}

		p.advance()

		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}

		left = ast.Binary{Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *Parser) parseMulDiv() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.at(lexer.Star) || p.at(lexer.Slash) {
		op := byte('*')
		if p.at(lexer.Slash) {
			op = '/'
		}

		p.advance()

		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		left = ast.Binary{Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	switch {
	case p.at(lexer.Number):
		tok := p.advance()
		return ast.Number{Value: int64(tok.Value)}, nil
	case p.at(lexer.Ident):
		tok := p.advance()
		return ast.Var{Name: tok.Text}, nil
	case p.at(lexer.LBrace):
		p.advance()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
			return nil, err
		}

		return e, nil
	case p.at(lexer.LParen):
		p.advance()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return nil, err
		}

		return e, nil
	default:
		return nil, p.errf("expected a number, identifier, or expression")
	}
}
