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

// Package parser implements a recursive-descent reader for the Expanded-form
// grammar, producing a pkg/ast.Module. This package intentionally does not
// attempt rich recovery or multi-error accumulation; it stops at the first
// ParseSyntax diagnostic.
package parser

import (
	"github.com/hdlforge/shdl/pkg/ast"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/lexer"
)

// Parser holds the token stream for a single source file.
type Parser struct {
	filename string
	tokens   []lexer.Token
	pos      int
}

// Parse tokenizes and parses a complete source file into a Module.
func Parse(filename, contents string) (*ast.Module, error) {
	tokens, err := lexer.New(filename, contents).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &Parser{filename: filename, tokens: tokens}

	return p.parseModule()
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) at(k lexer.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if !p.at(k) {
		return lexer.Token{}, p.errf("expected %s", what)
	}

	return p.advance(), nil
}

func (p *Parser) errf(msg string, args ...any) error {
	return diag.New(diag.ParseSyntax, p.peek().Span, msg, args...)
}

func (p *Parser) parseModule() (*ast.Module, error) {
	mod := &ast.Module{Filename: p.filename}

	for !p.at(lexer.EOF) {
		switch {
		case p.at(lexer.KwUse):
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}

			mod.Imports = append(mod.Imports, imp)
		case p.at(lexer.KwComponent):
			comp, err := p.parseComponent()
			if err != nil {
				return nil, err
			}

			mod.Components = append(mod.Components, comp)
		default:
			return nil, p.errf("expected 'use' or 'component'")
		}
	}

	return mod, nil
}

func (p *Parser) parseImport() (ast.Import, error) {
	start := p.peek().Span
	p.advance() // 'use'

	name, err := p.expect(lexer.Ident, "module name")
	if err != nil {
		return ast.Import{}, err
	}

	if _, err := p.expect(lexer.DoubleColon, "'::'"); err != nil {
		return ast.Import{}, err
	}

	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return ast.Import{}, err
	}

	var names []string

	for {
		id, err := p.expect(lexer.Ident, "component name")
		if err != nil {
			return ast.Import{}, err
		}

		names = append(names, id.Text)

		if p.at(lexer.Comma) {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return ast.Import{}, err
	}

	if _, err := p.expect(lexer.Semi, "';'"); err != nil {
		return ast.Import{}, err
	}

	return ast.Import{Module: name.Text, Components: names, Span: start}, nil
}

func (p *Parser) parseComponent() (*ast.Component, error) {
	start := p.peek().Span
	p.advance() // 'component'

	name, err := p.expect(lexer.Ident, "component name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen, "'('"); err != nil {
		return nil, err
	}

	inputs, err := p.parsePortList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RParen, "')'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Arrow, "'->'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen, "'('"); err != nil {
		return nil, err
	}

	outputs, err := p.parsePortList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RParen, "')'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}

	decls, connect, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}

	return &ast.Component{
		Name: name.Text, Inputs: inputs, Outputs: outputs,
		Decls: decls, Connect: connect, Span: start,
	}, nil
}

func (p *Parser) parsePortList() ([]ast.Port, error) {
	var ports []ast.Port

	if p.at(lexer.RParen) {
		return ports, nil
	}

	for {
		id, err := p.expect(lexer.Ident, "port name")
		if err != nil {
			return nil, err
		}

		width := uint(1)

		if p.at(lexer.LBracket) {
			p.advance()

			n, err := p.expect(lexer.Number, "port width")
			if err != nil {
				return nil, err
			}

			width = uint(n.Value)

			if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
				return nil, err
			}
		}

		ports = append(ports, ast.Port{Name: id.Text, Width: width, Span: id.Span})

		if p.at(lexer.Comma) {
			p.advance()
			continue
		}

		break
	}

	return ports, nil
}
